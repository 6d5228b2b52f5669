// Package memory is an in-process implementation of repositories.Store used
// by service and handler tests. Transactions are serialized and roll back by
// restoring a snapshot taken when they start.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/repositories"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type state struct {
	users          map[uint]models.User
	listings       map[uint]models.Listing
	orders         map[uint]models.Order
	complaints     map[uint]models.DMCAComplaint
	counterNotices map[uint]models.CounterNotice
	strikes        map[uint]models.SellerStrike
	bannedWords    map[string]models.BannedWord
	wordsVersion   int64
	settings       *models.FeeSettings
	outbox         []models.NotificationOutbox
	nextID         uint
}

func newState() *state {
	return &state{
		users:          make(map[uint]models.User),
		listings:       make(map[uint]models.Listing),
		orders:         make(map[uint]models.Order),
		complaints:     make(map[uint]models.DMCAComplaint),
		counterNotices: make(map[uint]models.CounterNotice),
		strikes:        make(map[uint]models.SellerStrike),
		bannedWords:    make(map[string]models.BannedWord),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.listings {
		c.listings[k] = cloneListing(v)
	}
	for k, v := range s.orders {
		c.orders[k] = cloneOrder(v)
	}
	for k, v := range s.complaints {
		c.complaints[k] = cloneComplaint(v)
	}
	for k, v := range s.counterNotices {
		c.counterNotices[k] = v
	}
	for k, v := range s.strikes {
		c.strikes[k] = v
	}
	for k, v := range s.bannedWords {
		c.bannedWords[k] = v
	}
	c.wordsVersion = s.wordsVersion
	if s.settings != nil {
		fs := cloneSettings(*s.settings)
		c.settings = &fs
	}
	c.outbox = append([]models.NotificationOutbox(nil), s.outbox...)
	c.nextID = s.nextID
	return c
}

func (s *state) id() uint {
	s.nextID++
	return s.nextID
}

// Store is safe for concurrent use.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state
}

var _ repositories.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) ExecuteInTransaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	err := fn(txStore{s})
	if err == nil {
		// A cancelled context fails the commit, as it does for a SQL transaction.
		err = ctx.Err()
	}
	if err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
	}
	return err
}

func (s *Store) Users() repositories.UserRepository                   { return userRepo{s} }
func (s *Store) Listings() repositories.ListingRepository             { return listingRepo{s} }
func (s *Store) Orders() repositories.OrderRepository                 { return orderRepo{s} }
func (s *Store) Complaints() repositories.ComplaintRepository         { return complaintRepo{s} }
func (s *Store) CounterNotices() repositories.CounterNoticeRepository { return counterNoticeRepo{s} }
func (s *Store) Strikes() repositories.StrikeRepository               { return strikeRepo{s} }
func (s *Store) BannedWords() repositories.BannedWordRepository       { return bannedWordRepo{s} }
func (s *Store) Settings() repositories.SettingsRepository            { return settingsRepo{s} }
func (s *Store) Outbox() repositories.OutboxRepository                { return outboxRepo{s} }

// Messages returns a copy of every outbox row in insertion order.
func (s *Store) Messages() []models.NotificationOutbox {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.NotificationOutbox(nil), s.st.outbox...)
}

// txStore runs nested transactions inline in the outer one.
type txStore struct {
	*Store
}

func (t txStore) ExecuteInTransaction(_ context.Context, fn func(tx repositories.Store) error) error {
	return fn(t)
}

func conflict(entity string, id uint) error {
	return fmt.Errorf("%s %d: %w", entity, id, apperrors.ErrConcurrentUpdate)
}

func missing(entity string, id interface{}) error {
	return fmt.Errorf("%s %v: %w", entity, id, apperrors.ErrNotFound)
}

func cloneListing(l models.Listing) models.Listing {
	l.FlaggedWords = append(pq.StringArray(nil), l.FlaggedWords...)
	return l
}

func cloneComplaint(c models.DMCAComplaint) models.DMCAComplaint {
	c.MatchedTerms = append(pq.StringArray(nil), c.MatchedTerms...)
	c.CounterNotice = nil
	return c
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	o.Sellers = append([]models.OrderSeller(nil), o.Sellers...)
	return o
}

func cloneSettings(fs models.FeeSettings) models.FeeSettings {
	fs.ProcessingRates = fs.ProcessingRates.Clone()
	fs.TaxRates = fs.TaxRates.Clone()
	return fs
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.s.st.users {
		if u.Email == user.Email {
			return apperrors.Conflict("EMAIL_TAKEN", "email already registered")
		}
	}
	if user.ID == 0 {
		user.ID = r.s.st.id()
	}
	if user.Role == "" {
		user.Role = models.RoleBuyer
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	if user.TokenVersion == 0 {
		user.TokenVersion = 1
	}
	user.CreatedAt = time.Now()
	r.s.st.users[user.ID] = *user
	return nil
}

func (r userRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, missing("user", id)
	}
	return &u, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, missing("user", email)
}

func (r userRepo) FindByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := r.s.st.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r userRepo) FindAdmins(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.User
	for _, u := range r.s.st.users {
		if u.Role == models.RoleAdmin && u.Status == models.UserStatusActive {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r userRepo) UpdateStatus(_ context.Context, id uint, status, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return missing("user", id)
	}
	u.Status = status
	u.SuspendedReason = reason
	u.TokenVersion++
	r.s.st.users[id] = u
	return nil
}

func (r userRepo) AddStoreCredit(_ context.Context, id uint, cents int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return missing("user", id)
	}
	u.StoreCreditCents += cents
	r.s.st.users[id] = u
	return nil
}

type listingRepo struct{ s *Store }

func (r listingRepo) Create(_ context.Context, listing *models.Listing) error {
	if listing.CopyrightStatus == "" {
		listing.CopyrightStatus = models.CopyrightClear
	}
	if err := listing.CheckVisibility(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	listing.ID = r.s.st.id()
	listing.Version = 1
	listing.CreatedAt = time.Now()
	r.s.st.listings[listing.ID] = cloneListing(*listing)
	return nil
}

func (r listingRepo) FindByID(_ context.Context, id uint) (*models.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.st.listings[id]
	if !ok {
		return nil, missing("listing", id)
	}
	l = cloneListing(l)
	return &l, nil
}

func (r listingRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Listing
	for _, id := range ids {
		if l, ok := r.s.st.listings[id]; ok {
			out = append(out, cloneListing(l))
		}
	}
	return out, nil
}

func (r listingRepo) Update(_ context.Context, listing *models.Listing) error {
	if err := listing.CheckVisibility(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.listings[listing.ID]
	if !ok || cur.Version != listing.Version {
		return conflict("listing", listing.ID)
	}
	cur.CopyrightStatus = listing.CopyrightStatus
	cur.IsActive = listing.IsActive
	cur.FlaggedWords = listing.FlaggedWords
	cur.FlaggedReason = listing.FlaggedReason
	cur.Version++
	cur.UpdatedAt = time.Now()
	r.s.st.listings[listing.ID] = cloneListing(cur)
	listing.Version = cur.Version
	return nil
}

func (r listingRepo) DeactivateBySeller(_ context.Context, sellerID uint, reason string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, l := range r.s.st.listings {
		if l.SellerID != sellerID || !l.IsActive {
			continue
		}
		l.IsActive = false
		l.CopyrightStatus = models.CopyrightDisabled
		l.FlaggedReason = reason
		l.Version++
		r.s.st.listings[id] = l
		n++
	}
	return n, nil
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order.ID = r.s.st.id()
	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentPending
	}
	if order.RefundStatus == "" {
		order.RefundStatus = models.RefundNone
	}
	for i := range order.Items {
		order.Items[i].ID = r.s.st.id()
		order.Items[i].OrderID = order.ID
	}
	for i := range order.Sellers {
		order.Sellers[i].ID = r.s.st.id()
		order.Sellers[i].OrderID = order.ID
		if order.Sellers[i].TransferStatus == "" {
			order.Sellers[i].TransferStatus = models.TransferPending
		}
	}
	order.CreatedAt = time.Now()
	r.s.st.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r orderRepo) FindByID(_ context.Context, id uint) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.st.orders[id]
	if !ok {
		return nil, missing("order", id)
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r orderRepo) FindByCheckoutSession(_ context.Context, sessionID string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.st.orders {
		if o.CheckoutSessionID == sessionID {
			o = cloneOrder(o)
			return &o, nil
		}
	}
	return nil, missing("order for session", sessionID)
}

func (r orderRepo) SetCheckoutSession(_ context.Context, id uint, sessionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[id]
	if !ok {
		return missing("order", id)
	}
	o.CheckoutSessionID = sessionID
	r.s.st.orders[id] = o
	return nil
}

func (r orderRepo) UpdatePayment(_ context.Context, order *models.Order, from string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[order.ID]
	if !ok || o.PaymentStatus != from {
		return conflict("order", order.ID)
	}
	o.PaymentStatus = order.PaymentStatus
	o.PaymentIntentID = order.PaymentIntentID
	o.PaidAt = order.PaidAt
	r.s.st.orders[order.ID] = o
	return nil
}

func (r orderRepo) UpdateRefund(_ context.Context, order *models.Order, from string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[order.ID]
	if !ok || o.RefundStatus != from {
		return conflict("order", order.ID)
	}
	o.RefundStatus = order.RefundStatus
	o.RefundType = order.RefundType
	o.RefundReference = order.RefundReference
	o.PaymentStatus = order.PaymentStatus
	r.s.st.orders[order.ID] = o
	return nil
}

func (r orderRepo) UpdateSellerTransfer(_ context.Context, seller *models.OrderSeller) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[seller.OrderID]
	if !ok {
		return missing("order", seller.OrderID)
	}
	o = cloneOrder(o)
	for i := range o.Sellers {
		if o.Sellers[i].ID == seller.ID {
			o.Sellers[i].TransferID = seller.TransferID
			o.Sellers[i].TransferStatus = seller.TransferStatus
			o.Sellers[i].TransferError = seller.TransferError
			r.s.st.orders[o.ID] = o
			return nil
		}
	}
	return missing("order seller", seller.ID)
}

type complaintRepo struct{ s *Store }

func (r complaintRepo) Create(_ context.Context, complaint *models.DMCAComplaint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	complaint.ID = r.s.st.id()
	complaint.Version = 1
	complaint.CreatedAt = time.Now()
	r.s.st.complaints[complaint.ID] = cloneComplaint(*complaint)
	return nil
}

func (r complaintRepo) withNotice(c models.DMCAComplaint) models.DMCAComplaint {
	c = cloneComplaint(c)
	for _, n := range r.s.st.counterNotices {
		if n.ComplaintID == c.ID {
			n := n
			c.CounterNotice = &n
		}
	}
	return c
}

func (r complaintRepo) FindByID(_ context.Context, id uint) (*models.DMCAComplaint, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.st.complaints[id]
	if !ok {
		return nil, missing("complaint", id)
	}
	c = r.withNotice(c)
	return &c, nil
}

func (r complaintRepo) List(_ context.Context, filter repositories.ComplaintFilter) ([]models.DMCAComplaint, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []models.DMCAComplaint
	for _, c := range r.s.st.complaints {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.SellerID != 0 && c.SellerID != filter.SellerID {
			continue
		}
		all = append(all, r.withNotice(c))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	start := filter.Offset
	if start > len(all) {
		start = len(all)
	}
	end := len(all)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return all[start:end], total, nil
}

func (r complaintRepo) Update(_ context.Context, complaint *models.DMCAComplaint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.complaints[complaint.ID]
	if !ok || cur.Version != complaint.Version {
		return conflict("complaint", complaint.ID)
	}
	cur.Status = complaint.Status
	cur.AutoFlagged = complaint.AutoFlagged
	cur.MatchedTerms = complaint.MatchedTerms
	cur.AdminNotes = complaint.AdminNotes
	cur.ResolvedBy = complaint.ResolvedBy
	cur.ResolvedAt = complaint.ResolvedAt
	cur.Version++
	r.s.st.complaints[complaint.ID] = cloneComplaint(cur)
	complaint.Version = cur.Version
	return nil
}

func (r complaintRepo) CountOpenForListing(_ context.Context, listingID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, c := range r.s.st.complaints {
		if c.ListingID == listingID &&
			(c.Status == models.ComplaintPending || c.Status == models.ComplaintCounterNoticed) {
			n++
		}
	}
	return n, nil
}

type counterNoticeRepo struct{ s *Store }

func (r counterNoticeRepo) Create(_ context.Context, notice *models.CounterNotice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.st.counterNotices {
		if n.ComplaintID == notice.ComplaintID {
			return repositories.ErrCounterNoticeExists
		}
	}
	notice.ID = r.s.st.id()
	notice.Version = 1
	notice.CreatedAt = time.Now()
	r.s.st.counterNotices[notice.ID] = *notice
	return nil
}

func (r counterNoticeRepo) FindByID(_ context.Context, id uint) (*models.CounterNotice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n, ok := r.s.st.counterNotices[id]
	if !ok {
		return nil, missing("counter-notice", id)
	}
	return &n, nil
}

func (r counterNoticeRepo) FindByComplaintID(_ context.Context, complaintID uint) (*models.CounterNotice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, n := range r.s.st.counterNotices {
		if n.ComplaintID == complaintID {
			return &n, nil
		}
	}
	return nil, missing("counter-notice for complaint", complaintID)
}

func (r counterNoticeRepo) ExistsForComplaint(ctx context.Context, complaintID uint) (bool, error) {
	_, err := r.FindByComplaintID(ctx, complaintID)
	return err == nil, nil
}

func (r counterNoticeRepo) Update(_ context.Context, notice *models.CounterNotice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.counterNotices[notice.ID]
	if !ok || cur.Version != notice.Version {
		return conflict("counter-notice", notice.ID)
	}
	cur.Status = notice.Status
	cur.AdminNotes = notice.AdminNotes
	cur.ReviewedBy = notice.ReviewedBy
	cur.ReviewedAt = notice.ReviewedAt
	cur.Version++
	r.s.st.counterNotices[notice.ID] = cur
	notice.Version = cur.Version
	return nil
}

type strikeRepo struct{ s *Store }

func (r strikeRepo) Create(_ context.Context, strike *models.SellerStrike) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if strike.Status == "" {
		strike.Status = models.StrikeActive
	}
	strike.ID = r.s.st.id()
	strike.Version = 1
	strike.CreatedAt = time.Now()
	r.s.st.strikes[strike.ID] = *strike
	return nil
}

func (r strikeRepo) FindByID(_ context.Context, id uint) (*models.SellerStrike, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.st.strikes[id]
	if !ok {
		return nil, missing("strike", id)
	}
	return &st, nil
}

func (r strikeRepo) FindBySellerID(_ context.Context, sellerID uint) ([]models.SellerStrike, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.SellerStrike
	for _, st := range r.s.st.strikes {
		if st.SellerID == sellerID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r strikeRepo) CountActive(_ context.Context, sellerID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, st := range r.s.st.strikes {
		if st.SellerID == sellerID && st.Counts() {
			n++
		}
	}
	return n, nil
}

func (r strikeRepo) Update(_ context.Context, strike *models.SellerStrike) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.strikes[strike.ID]
	if !ok || cur.Version != strike.Version {
		return conflict("strike", strike.ID)
	}
	cur.Status = strike.Status
	cur.AppealReason = strike.AppealReason
	cur.ReviewedBy = strike.ReviewedBy
	cur.ReviewedAt = strike.ReviewedAt
	cur.Version++
	r.s.st.strikes[strike.ID] = cur
	strike.Version = cur.Version
	return nil
}

type bannedWordRepo struct{ s *Store }

func (r bannedWordRepo) List(_ context.Context) ([]models.BannedWord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.BannedWord, 0, len(r.s.st.bannedWords))
	for _, w := range r.s.st.bannedWords {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	return out, nil
}

func (r bannedWordRepo) Version(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.wordsVersion, nil
}

func (r bannedWordRepo) Upsert(_ context.Context, word *models.BannedWord) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	word.Term = strings.ToLower(strings.TrimSpace(word.Term))
	if cur, ok := r.s.st.bannedWords[word.Term]; ok {
		word.ID = cur.ID
		word.CreatedAt = cur.CreatedAt
	} else {
		word.ID = r.s.st.id()
		word.CreatedAt = time.Now()
	}
	word.UpdatedAt = time.Now()
	r.s.st.bannedWords[word.Term] = *word
	r.s.st.wordsVersion++
	return r.s.st.wordsVersion, nil
}

func (r bannedWordRepo) Delete(_ context.Context, term string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	term = strings.ToLower(strings.TrimSpace(term))
	if _, ok := r.s.st.bannedWords[term]; !ok {
		return 0, missing("banned word", term)
	}
	delete(r.s.st.bannedWords, term)
	r.s.st.wordsVersion++
	return r.s.st.wordsVersion, nil
}

func (r bannedWordRepo) Seed(_ context.Context, words []models.BannedWord) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(r.s.st.bannedWords) > 0 || len(words) == 0 {
		return 0, nil
	}
	for _, w := range words {
		w.Term = strings.ToLower(strings.TrimSpace(w.Term))
		w.ID = r.s.st.id()
		r.s.st.bannedWords[w.Term] = w
	}
	r.s.st.wordsVersion++
	return len(words), nil
}

type settingsRepo struct{ s *Store }

func (r settingsRepo) GetFeeSettings(_ context.Context) (*models.FeeSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.st.settings == nil {
		fs := models.DefaultFeeSettings()
		fs.ID = 1
		r.s.st.settings = &fs
	}
	fs := cloneSettings(*r.s.st.settings)
	return &fs, nil
}

func (r settingsRepo) SaveFeeSettings(_ context.Context, settings *models.FeeSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	settings.ID = 1
	settings.UpdatedAt = time.Now()
	fs := cloneSettings(*settings)
	r.s.st.settings = &fs
	return nil
}

type outboxRepo struct{ s *Store }

func (r outboxRepo) Enqueue(_ context.Context, msg *models.NotificationOutbox) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	msg.CreatedAt = time.Now()
	r.s.st.outbox = append(r.s.st.outbox, *msg)
	return nil
}

func (r outboxRepo) ClaimUnpublished(_ context.Context, limit int, claimToken string, claimUntil time.Time) ([]models.NotificationOutbox, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	var out []models.NotificationOutbox
	for i := range r.s.st.outbox {
		if len(out) >= limit {
			break
		}
		m := &r.s.st.outbox[i]
		if m.PublishedAt != nil || m.DeadLetteredAt != nil {
			continue
		}
		if m.ClaimUntil != nil && m.ClaimUntil.After(now) {
			continue
		}
		token, until := claimToken, claimUntil
		m.ClaimToken = &token
		m.ClaimUntil = &until
		out = append(out, *m)
	}
	return out, nil
}

func (r outboxRepo) update(id uuid.UUID, claimToken string, fn func(m *models.NotificationOutbox)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.st.outbox {
		m := &r.s.st.outbox[i]
		if m.ID == id && m.ClaimToken != nil && *m.ClaimToken == claimToken {
			fn(m)
			m.ClaimToken = nil
			m.ClaimUntil = nil
			return nil
		}
	}
	return nil
}

func (r outboxRepo) MarkPublished(_ context.Context, id uuid.UUID, claimToken string, at time.Time) error {
	return r.update(id, claimToken, func(m *models.NotificationOutbox) {
		m.PublishedAt = &at
	})
}

func (r outboxRepo) MarkFailed(_ context.Context, id uuid.UUID, claimToken, errMsg string, at time.Time) error {
	return r.update(id, claimToken, func(m *models.NotificationOutbox) {
		m.RetryCount++
		m.LastError = &errMsg
		m.LastErrorAt = &at
	})
}

func (r outboxRepo) MarkDeadLettered(_ context.Context, id uuid.UUID, claimToken, errMsg string, at time.Time) error {
	return r.update(id, claimToken, func(m *models.NotificationOutbox) {
		m.RetryCount++
		m.LastError = &errMsg
		m.LastErrorAt = &at
		m.DeadLetteredAt = &at
	})
}
