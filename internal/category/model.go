package category

type Category struct {
	ID       string  `json:"id"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	Icon     string  `json:"icon"`
	Image    *string `json:"image"`
	ParentID *string `json:"parentId"`
	Order    int     `json:"order"`
}

func (c Category) IsTopLevel() bool {
	return c.ParentID == nil
}
