package types

// Owner is the account that owns a repository
type Owner struct {
	Login   string `json:"login"`
	HTMLURL string `json:"html_url"`
}

// Repository is one item of a repository search response
type Repository struct {
	Name        string  `json:"name"`
	HTMLURL     string  `json:"html_url"`
	Description *string `json:"description"`
	Owner       Owner   `json:"owner"`
}

// DescriptionOrDefault returns the description, or "-" when upstream sent
// null, omitted the field, or sent an empty string.
func (r Repository) DescriptionOrDefault() string {
	if r.Description == nil || *r.Description == "" {
		return "-"
	}
	return *r.Description
}

// SearchResult is the repository search envelope. Items keep upstream order.
type SearchResult struct {
	Items []Repository `json:"items"`
}
