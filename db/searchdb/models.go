package searchdb

type Document struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Specialities []string `json:"specialities"`
	Clinic       string   `json:"clinic"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	Introduction string   `json:"introduction"`
	Languages    []string `json:"languages"`
}

type Result struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type Response struct {
	Results    []Result `json:"results"`
	Total      uint64   `json:"total"`
	MaxScore   float64  `json:"max_score"`
	SearchTime string   `json:"search_time"`
}
