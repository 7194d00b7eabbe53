package models

// ScrapedPost holds one page's extraction result before conversion.
// Missing fields are empty, never guessed.
type ScrapedPost struct {
	URL      string
	Title    string
	BodyHTML string
	Date     string
	Image    string
	Tags     []string
}

// HasTitle reports whether the page yielded a usable title.
func (p *ScrapedPost) HasTitle() bool {
	return p != nil && p.Title != ""
}
