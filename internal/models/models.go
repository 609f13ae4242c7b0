package models

// All lists every table, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&AuthToken{},
		&Category{},
		&Post{},
		&PostImage{},
		&Like{},
		&Favorite{},
		&Rating{},
		&Comment{},
	}
}
