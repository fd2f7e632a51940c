package models

type Movie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Poster      string `json:"poster"`
	Price       int    `json:"price"`
}

type Snack struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// DefaultMovies is the catalog seeded at startup. Prices are whole rupees.
func DefaultMovies() []Movie {
	return []Movie{
		{ID: 1, Title: "Leo", Description: "A high-octane thriller.", Poster: "/posters/leo.svg", Price: 250},
		{ID: 2, Title: "Jailer", Description: "A gripping drama.", Poster: "/posters/jailer.svg", Price: 220},
		{ID: 3, Title: "Kalki 2898 AD", Description: "Sci-fi epic.", Poster: "/posters/kalki.svg", Price: 300},
	}
}

func DefaultSnacks() []Snack {
	return []Snack{
		{ID: 1, Name: "Popcorn", Price: 120},
		{ID: 2, Name: "Samosa", Price: 40},
		{ID: 3, Name: "Fries", Price: 80},
		{ID: 4, Name: "Cold Drink", Price: 70},
	}
}
