package bookshelf

// LatestReadBooks returns the books in a user's read history, in the order the history
// was stored. Books are looked up on every call rather than copied into the history so
// that edits to a book show up in everyone's history.
func (s *Store) LatestReadBooks(accountID string) ([]Book, error) {
	entries, err := s.ReadHistory(accountID)
	if err != nil {
		return nil, err
	}

	books := make([]Book, 0, len(entries))
	for _, entry := range entries {
		book, err := s.Book(entry.BookID)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	return books, nil
}

// AvailableBooksByMarket returns every book sold in the market, in store order. The
// market does not have to exist, an unknown market just has no books.
func (s *Store) AvailableBooksByMarket(marketID string) []Book {
	books := []Book{}

	for _, book := range s.books {
		for _, market := range book.Markets {
			if market == marketID {
				books = append(books, book)
				break
			}
		}
	}

	return books
}

// AvailableMarketsForBook returns references to the markets a book is sold in. Only the
// id is populated, callers that need more than that have to look the market up.
func (s *Store) AvailableMarketsForBook(bookID string) ([]MarketRef, error) {
	book, err := s.Book(bookID)
	if err != nil {
		return nil, err
	}

	refs := make([]MarketRef, 0, len(book.Markets))
	for _, id := range book.Markets {
		refs = append(refs, MarketRef{ID: id})
	}

	return refs, nil
}

// PopularBooksByMarket returns the books of the market's "mostpopular" collection in the order they were curated
func (s *Store) PopularBooksByMarket(marketID string) ([]Book, error) {
	collection, err := s.Collection(MostPopularCollection, marketID)
	if err != nil {
		return nil, err
	}

	books := make([]Book, 0, len(collection.Books))
	for _, id := range collection.Books {
		book, err := s.Book(id)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	return books, nil
}
