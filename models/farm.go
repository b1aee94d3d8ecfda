package models

// Category groups crops under a unique name, e.g. "Cereals".
type Category struct {
	Name  string `json:"name" bson:"name"`
	Crops []Crop `json:"crops" bson:"crops"`
}

// Crop is a catalogue entry. Diseases are only populated by detail lookups;
// listings leave them empty.
type Crop struct {
	Name     string    `json:"name" bson:"name"`
	PicURL   string    `json:"picURL" bson:"picURL"`
	Regions  []string  `json:"regions" bson:"regions"`
	About    string    `json:"about" bson:"about"`
	Diseases []Disease `json:"diseases" bson:"diseases"`
}

type Disease struct {
	Name     string   `json:"name" bson:"name"`
	Symptoms string   `json:"symptoms" bson:"symptoms"`
	Cause    string   `json:"cause" bson:"cause"`
	Solution []string `json:"solution" bson:"solution"` // ordered remedy steps
}
