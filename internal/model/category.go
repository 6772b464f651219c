package model

import "strings"

// DefaultCategoryName names the bucket used for uncategorized transactions.
const DefaultCategoryName = "Other"

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c Category) IsDefault() bool {
	return strings.EqualFold(strings.TrimSpace(c.Name), DefaultCategoryName)
}
