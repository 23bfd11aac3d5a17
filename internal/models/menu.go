package models

type MenuItem struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Image string `yaml:"image" json:"image,omitempty"`
}

type MenuCategory struct {
	ID    string     `yaml:"id" json:"id"`
	Name  string     `yaml:"name" json:"name"`
	Icon  string     `yaml:"icon" json:"icon,omitempty"`
	Items []MenuItem `yaml:"items" json:"items"`
}

// Menu is the ordered catalog of categories served to the POS widget.
type Menu []MenuCategory

// FindItem returns the item and its category id, or false when unknown.
func (m Menu) FindItem(itemID string) (MenuItem, string, bool) {
	for _, category := range m {
		for _, item := range category.Items {
			if item.ID == itemID {
				return item, category.ID, true
			}
		}
	}
	return MenuItem{}, "", false
}
