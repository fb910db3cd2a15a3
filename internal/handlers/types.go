package handlers

// CreateLinkRequest is the request body for creating a short link.
type CreateLinkRequest struct {
	Body struct {
		URL     string   `doc:"The URL to shorten"                      example:"https://example.com/very/long/path" json:"url" minLength:"1"`
		Aliases []string `doc:"Alternate names, stored percent-encoded" json:"aliases,omitempty"`
	}
}

// LinkBody describes a stored link.
type LinkBody struct {
	Identifier  string   `doc:"The link identifier" example:"0f8fad5b-d9cb-469f-a165-70867728950e" json:"identifier"`
	Code        string   `doc:"The short code"      example:"V1StGXR8"                             json:"code"`
	ShortURL    string   `doc:"The full short URL"  example:"http://localhost:8888/V1StGXR8"       json:"shortUrl"`
	OriginalURL string   `doc:"The original URL"    example:"https://example.com/very/long/path"   json:"originalUrl"`
	Aliases     []string `doc:"Encoded aliases"     json:"aliases,omitempty"`
}

// CreateLinkResponse is the response for a successfully created link.
type CreateLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body LinkBody
}

// CodeRequest addresses a link by its short code.
type CodeRequest struct {
	Code string `doc:"The short code" example:"V1StGXR8" maxLength:"64" minLength:"1" path:"code"`
}

// LinkResponse is the response for a link lookup.
type LinkResponse struct {
	Body LinkBody
}

// RedirectResponse sends the client to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}
