package bookshelf

// SampleData returns the hand-written records the server uses when no data file is configured
func SampleData() Data {
	return Data{
		Books: []Book{
			{
				ID:      "1",
				Title:   "Harry Potter and the Chamber of Secrets",
				Author:  "J.K. Rowling",
				Markets: []string{"SE", "EN"},
			},
			{
				ID:      "2",
				Title:   "Jurassic Park",
				Author:  "Michael Crichton",
				Markets: []string{"EN"},
			},
			{
				ID:      "3",
				Title:   "Jurassic World",
				Author:  "Michael C",
				Markets: []string{"SE"},
			},
		},
		Users: []User{
			{AccountID: "1", Name: "kalle"},
			{AccountID: "2", Name: "bob"},
		},
		Markets: []Market{
			{ID: "SE", Name: "Sweden"},
			{ID: "EN", Name: "England"},
		},
		ReadHistory: []UserReadHistory{
			{
				ID: "1",
				ReadBooks: []ReadEntry{
					{BookID: "3", Timestamp: "1234"},
					{BookID: "1", Timestamp: "54321"},
				},
			},
			{
				ID:        "2",
				ReadBooks: []ReadEntry{},
			},
		},
		Collections: []PopularCollection{
			{CollectionName: MostPopularCollection, Market: "SE", Books: []string{"3"}},
			{CollectionName: MostPopularCollection, Market: "EN", Books: []string{"1"}},
		},
	}
}

// NewSampleStore builds a store over SampleData
func NewSampleStore() *Store {
	return MustNewStore(SampleData())
}
