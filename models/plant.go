package models

// Plant repräsentiert eine Pflanze im Shop-Katalog.
type Plant struct {
	ID        uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string  `json:"name" gorm:"not null"`
	Image     string  `json:"image" gorm:"not null"`
	Price     float64 `json:"price" gorm:"not null"`
	IsInStock bool    `json:"is_in_stock" gorm:"column:is_in_stock;not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Plant) TableName() string {
	return "plants"
}

// PlantInput ist der Body für POST /plants. Alle Felder sind Pflicht.
type PlantInput struct {
	Name      Optional[string]  `json:"name"`
	Image     Optional[string]  `json:"image"`
	Price     Optional[float64] `json:"price"`
	IsInStock Optional[bool]    `json:"is_in_stock"`
}

// PlantPatch ist der Body für PATCH /plants/:id. Nur gesendete Felder werden überschrieben.
type PlantPatch struct {
	Name      Optional[string]  `json:"name"`
	Image     Optional[string]  `json:"image"`
	Price     Optional[float64] `json:"price"`
	IsInStock Optional[bool]    `json:"is_in_stock"`
}

// Updates liefert die Spalten-Map für GORM, nur mit gesetzten Feldern.
// Null-Werte werden nicht übernommen, das prüft der Service vorher.
func (p PlantPatch) Updates() map[string]any {
	updates := map[string]any{}
	if v, ok := p.Name.Get(); ok {
		updates["name"] = v
	}
	if v, ok := p.Image.Get(); ok {
		updates["image"] = v
	}
	if v, ok := p.Price.Get(); ok {
		updates["price"] = v
	}
	if v, ok := p.IsInStock.Get(); ok {
		updates["is_in_stock"] = v
	}
	return updates
}

// Apply schreibt die gesetzten Felder in plant.
func (p PlantPatch) Apply(plant *Plant) {
	if v, ok := p.Name.Get(); ok {
		plant.Name = v
	}
	if v, ok := p.Image.Get(); ok {
		plant.Image = v
	}
	if v, ok := p.Price.Get(); ok {
		plant.Price = v
	}
	if v, ok := p.IsInStock.Get(); ok {
		plant.IsInStock = v
	}
}
