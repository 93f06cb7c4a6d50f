package handler

// createTextRequest carries a new consent text version from the operator form.
type createTextRequest struct {
	Version  string `json:"version"`
	Language string `json:"language"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}
