package model

// CustomerSummary is the directory view of a business account, used by the
// customer picker and the impersonation picker.
type CustomerSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
