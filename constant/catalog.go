package constant

// Médiathèque numérique product tags and endpoints.
const (
	CatalogSearchURL = "https://vod.mediatheque-numerique.com/api/proxy/api/product/search"

	// CinemaCategory is the UUID of the "Cinéma" product category.
	CinemaCategory = "5fcf8750-bada-442c-84b4-fe05b949fba2"

	// ProductTypeProgram marks single programs, as opposed to series and packs.
	ProductTypeProgram = "PROGRAM"
)

// Letterboxd endpoints.
const (
	LetterboxdBaseURL = "https://letterboxd.com"
	LetterboxdSignIn  = LetterboxdBaseURL + "/sign-in/"
)

// GeolocationURL answers with the caller's ISO country code.
const GeolocationURL = "https://ipinfo.io/json"
