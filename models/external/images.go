package external

// CatImage is one entry of the thecatapi/thedogapi search response.
type CatImage struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Meme is the meme-api.com response payload.
type Meme struct {
	PostLink  string `json:"postLink"`
	Subreddit string `json:"subreddit"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Ups       int    `json:"ups"`
}
