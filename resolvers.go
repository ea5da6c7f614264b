package bookshelf

// rootResolver resolves the fields of the Query type
type rootResolver struct {
	store *Store
}

func (r *rootResolver) Books() []*bookResolver {
	return bookResolvers(r.store, r.store.Books())
}

func (r *rootResolver) Markets() []*marketResolver {
	markets := r.store.Markets()

	resolvers := make([]*marketResolver, 0, len(markets))
	for i := range markets {
		resolvers = append(resolvers, fullMarket(r.store, markets[i]))
	}
	return resolvers
}

func (r *rootResolver) Users() []*userResolver {
	users := r.store.Users()

	resolvers := make([]*userResolver, 0, len(users))
	for _, user := range users {
		resolvers = append(resolvers, &userResolver{store: r.store, user: user})
	}
	return resolvers
}

func (r *rootResolver) Book(args struct{ ID string }) (*bookResolver, error) {
	book, err := r.store.Book(args.ID)
	if err != nil {
		return nil, err
	}
	return &bookResolver{store: r.store, book: book}, nil
}

func (r *rootResolver) User(args struct{ AccountID string }) (*userResolver, error) {
	user, err := r.store.User(args.AccountID)
	if err != nil {
		return nil, err
	}
	return &userResolver{store: r.store, user: user}, nil
}

func (r *rootResolver) Market(args struct{ ID string }) (*marketResolver, error) {
	market, err := r.store.Market(args.ID)
	if err != nil {
		return nil, err
	}
	return fullMarket(r.store, market), nil
}

type bookResolver struct {
	store *Store
	book  Book
}

func bookResolvers(store *Store, books []Book) []*bookResolver {
	resolvers := make([]*bookResolver, 0, len(books))
	for _, book := range books {
		resolvers = append(resolvers, &bookResolver{store: store, book: book})
	}
	return resolvers
}

func (b *bookResolver) ID() string {
	return b.book.ID
}

func (b *bookResolver) Title() string {
	return b.book.Title
}

func (b *bookResolver) Author() string {
	return b.book.Author
}

// AvailableMarkets only knows the ids of the markets. Their names are looked up if asked for.
func (b *bookResolver) AvailableMarkets() (*[]*marketResolver, error) {
	refs, err := b.store.AvailableMarketsForBook(b.book.ID)
	if err != nil {
		return nil, err
	}

	resolvers := make([]*marketResolver, 0, len(refs))
	for _, ref := range refs {
		resolvers = append(resolvers, &marketResolver{store: b.store, ref: ref})
	}
	return &resolvers, nil
}

// marketResolver resolves either a full Market or just a reference to one. The rest
// of a reference is looked up when a field other than the id is requested.
type marketResolver struct {
	store  *Store
	ref    MarketRef
	market *Market
}

func fullMarket(store *Store, market Market) *marketResolver {
	return &marketResolver{
		store:  store,
		ref:    MarketRef{ID: market.ID},
		market: &market,
	}
}

func (m *marketResolver) ID() string {
	return m.ref.ID
}

func (m *marketResolver) Name() (*string, error) {
	// a reference needs to be looked up before we know its name
	if m.market == nil {
		market, err := m.store.Market(m.ref.ID)
		if err != nil {
			return nil, err
		}
		return &market.Name, nil
	}

	return &m.market.Name, nil
}

func (m *marketResolver) AvailableBooks() []*bookResolver {
	return bookResolvers(m.store, m.store.AvailableBooksByMarket(m.ref.ID))
}

func (m *marketResolver) MostPopularBooks() (*[]*bookResolver, error) {
	books, err := m.store.PopularBooksByMarket(m.ref.ID)
	if err != nil {
		return nil, err
	}

	resolvers := bookResolvers(m.store, books)
	return &resolvers, nil
}

type userResolver struct {
	store *Store
	user  User
}

func (u *userResolver) AccountID() string {
	return u.user.AccountID
}

func (u *userResolver) Name() string {
	return u.user.Name
}

func (u *userResolver) LatestReadBooks() (*[]*bookResolver, error) {
	books, err := u.store.LatestReadBooks(u.user.AccountID)
	if err != nil {
		return nil, err
	}

	resolvers := bookResolvers(u.store, books)
	return &resolvers, nil
}

func (u *userResolver) ReadHistory() (*[]*readEntryResolver, error) {
	entries, err := u.store.ReadHistory(u.user.AccountID)
	if err != nil {
		return nil, err
	}

	resolvers := make([]*readEntryResolver, 0, len(entries))
	for _, entry := range entries {
		resolvers = append(resolvers, &readEntryResolver{store: u.store, entry: entry})
	}
	return &resolvers, nil
}

type readEntryResolver struct {
	store *Store
	entry ReadEntry
}

func (r *readEntryResolver) Timestamp() string {
	return r.entry.Timestamp
}

func (r *readEntryResolver) Book() (*bookResolver, error) {
	book, err := r.store.Book(r.entry.BookID)
	if err != nil {
		return nil, err
	}
	return &bookResolver{store: r.store, book: book}, nil
}
