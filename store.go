package bookshelf

import (
	"fmt"
)

// MostPopularCollection is the name of the curated collection backing Market.mostpopularbooks
const MostPopularCollection = "mostpopular"

// Book is a title that can be sold in a number of markets
type Book struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Author  string   `json:"author"`
	Markets []string `json:"markets"`
}

// User is an account that can read books
type User struct {
	AccountID string `json:"accountId"`
	Name      string `json:"name"`
}

// Market is a region books are sold in
type Market struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MarketRef points at a Market without carrying any of its fields. Resolving
// anything beyond the id requires a separate lookup in the store.
type MarketRef struct {
	ID string `json:"id"`
}

// ReadEntry records a single book a user has read
type ReadEntry struct {
	BookID    string `json:"id"`
	Timestamp string `json:"timestamp"`
}

// UserReadHistory is the ordered list of books read by the user with the matching account id
type UserReadHistory struct {
	ID        string      `json:"id"`
	ReadBooks []ReadEntry `json:"readBooks"`
}

// PopularCollection is a curated, ordered list of books for a single market
type PopularCollection struct {
	CollectionName string   `json:"collectionName"`
	Market         string   `json:"market"`
	Books          []string `json:"books"`
}

// Data holds the raw collections a Store is built from
type Data struct {
	Books       []Book              `json:"books"`
	Users       []User              `json:"users"`
	Markets     []Market            `json:"markets"`
	ReadHistory []UserReadHistory   `json:"readHistory"`
	Collections []PopularCollection `json:"collections"`
}

// Store is the read-only set of records the api resolves against. A Store never changes
// after NewStore returns so it is safe to share between concurrent requests. Slices held by
// returned records (ie, Book.Markets) are shared with the store and must not be modified.
type Store struct {
	books       []Book
	users       []User
	markets     []Market
	history     []UserReadHistory
	collections []PopularCollection

	// indices into the slices above
	bookIndex       map[string]int
	userIndex       map[string]int
	marketIndex     map[string]int
	historyIndex    map[string]int
	collectionIndex map[collectionKey]int
}

type collectionKey struct {
	name   string
	market string
}

// StoreOption configures the construction of a Store
type StoreOption func(*storeConfig)

type storeConfig struct {
	skipIntegrityCheck bool
}

// SkipIntegrityCheck lets NewStore accept data with references to records that do not exist
func SkipIntegrityCheck() StoreOption {
	return func(c *storeConfig) {
		c.skipIntegrityCheck = true
	}
}

// NewStore copies the provided data into a new Store. Ids must be unique within each
// collection and, unless SkipIntegrityCheck is passed, every reference must point at
// an existing record.
func NewStore(data Data, opts ...StoreOption) (*Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	data = data.clone()

	store := &Store{
		books:           data.Books,
		users:           data.Users,
		markets:         data.Markets,
		history:         data.ReadHistory,
		collections:     data.Collections,
		bookIndex:       map[string]int{},
		userIndex:       map[string]int{},
		marketIndex:     map[string]int{},
		historyIndex:    map[string]int{},
		collectionIndex: map[collectionKey]int{},
	}

	// build up the indices, making sure we don't see the same key twice
	for i, book := range store.books {
		if err := addIndex(store.bookIndex, book.ID, i, "book"); err != nil {
			return nil, err
		}
	}
	for i, user := range store.users {
		if err := addIndex(store.userIndex, user.AccountID, i, "user"); err != nil {
			return nil, err
		}
	}
	for i, market := range store.markets {
		if err := addIndex(store.marketIndex, market.ID, i, "market"); err != nil {
			return nil, err
		}
	}
	for i, history := range store.history {
		if err := addIndex(store.historyIndex, history.ID, i, "read history"); err != nil {
			return nil, err
		}
	}
	for i, collection := range store.collections {
		key := collectionKey{name: collection.CollectionName, market: collection.Market}
		if _, ok := store.collectionIndex[key]; ok {
			return nil, fmt.Errorf("duplicate collection %q for market %q", key.name, key.market)
		}
		store.collectionIndex[key] = i
	}

	if !config.skipIntegrityCheck {
		if err := store.checkIntegrity(); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// MustNewStore is like NewStore but panics if the data is invalid
func MustNewStore(data Data, opts ...StoreOption) *Store {
	store, err := NewStore(data, opts...)
	if err != nil {
		panic(err)
	}
	return store
}

func addIndex(index map[string]int, key string, position int, kind string) error {
	if key == "" {
		return fmt.Errorf("%s at position %d has an empty id", kind, position)
	}
	if _, ok := index[key]; ok {
		return fmt.Errorf("duplicate %s id %q", kind, key)
	}
	index[key] = position
	return nil
}

// checkIntegrity looks for references to records that are not in the store
func (s *Store) checkIntegrity() error {
	dangling := []DanglingReference{}

	for _, book := range s.books {
		for _, market := range book.Markets {
			if _, ok := s.marketIndex[market]; !ok {
				dangling = append(dangling, DanglingReference{
					From: fmt.Sprintf("book %q", book.ID),
					Kind: KindMarket,
					Key:  market,
				})
			}
		}
	}

	for _, history := range s.history {
		if _, ok := s.userIndex[history.ID]; !ok {
			dangling = append(dangling, DanglingReference{
				From: "read history",
				Kind: KindUser,
				Key:  history.ID,
			})
		}
		for _, entry := range history.ReadBooks {
			if _, ok := s.bookIndex[entry.BookID]; !ok {
				dangling = append(dangling, DanglingReference{
					From: fmt.Sprintf("read history %q", history.ID),
					Kind: KindBook,
					Key:  entry.BookID,
				})
			}
		}
	}

	for _, collection := range s.collections {
		from := fmt.Sprintf("collection %q/%q", collection.CollectionName, collection.Market)
		if _, ok := s.marketIndex[collection.Market]; !ok {
			dangling = append(dangling, DanglingReference{From: from, Kind: KindMarket, Key: collection.Market})
		}
		for _, id := range collection.Books {
			if _, ok := s.bookIndex[id]; !ok {
				dangling = append(dangling, DanglingReference{From: from, Kind: KindBook, Key: id})
			}
		}
	}

	if len(dangling) > 0 {
		return &IntegrityError{References: dangling}
	}

	return nil
}

// Books returns every book in the order they were loaded
func (s *Store) Books() []Book {
	return append([]Book{}, s.books...)
}

// Users returns every user in the order they were loaded
func (s *Store) Users() []User {
	return append([]User{}, s.users...)
}

// Markets returns every market in the order they were loaded
func (s *Store) Markets() []Market {
	return append([]Market{}, s.markets...)
}

// Book looks up a single book by id
func (s *Store) Book(id string) (Book, error) {
	i, ok := s.bookIndex[id]
	if !ok {
		return Book{}, notFound(KindBook, id)
	}
	return s.books[i], nil
}

// User looks up a single user by account id
func (s *Store) User(accountID string) (User, error) {
	i, ok := s.userIndex[accountID]
	if !ok {
		return User{}, notFound(KindUser, accountID)
	}
	return s.users[i], nil
}

// Market looks up the full market a reference points to
func (s *Store) Market(id string) (Market, error) {
	i, ok := s.marketIndex[id]
	if !ok {
		return Market{}, notFound(KindMarket, id)
	}
	return s.markets[i], nil
}

// ReadHistory returns the raw entries of a user's read history in the order they were stored
func (s *Store) ReadHistory(accountID string) ([]ReadEntry, error) {
	i, ok := s.historyIndex[accountID]
	if !ok {
		return nil, notFound(KindUser, accountID)
	}
	return append([]ReadEntry{}, s.history[i].ReadBooks...), nil
}

// Collection looks up the curated collection with the given name for a market
func (s *Store) Collection(name string, market string) (PopularCollection, error) {
	i, ok := s.collectionIndex[collectionKey{name: name, market: market}]
	if !ok {
		return PopularCollection{}, notFound(KindCollection, name+"/"+market)
	}
	return s.collections[i], nil
}

// clone copies every slice so the store does not share memory with the caller
func (d Data) clone() Data {
	result := Data{
		Books:       make([]Book, len(d.Books)),
		Users:       append([]User{}, d.Users...),
		Markets:     append([]Market{}, d.Markets...),
		ReadHistory: make([]UserReadHistory, len(d.ReadHistory)),
		Collections: make([]PopularCollection, len(d.Collections)),
	}

	for i, book := range d.Books {
		book.Markets = append([]string{}, book.Markets...)
		result.Books[i] = book
	}
	for i, history := range d.ReadHistory {
		history.ReadBooks = append([]ReadEntry{}, history.ReadBooks...)
		result.ReadHistory[i] = history
	}
	for i, collection := range d.Collections {
		collection.Books = append([]string{}, collection.Books...)
		result.Collections[i] = collection
	}

	return result
}
