// Package service manages the persisted friend and contact collections.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/pesto/remittance-sync/pkg/app/errors"
	"github.com/pesto/remittance-sync/pkg/contacts"
	"github.com/pesto/remittance-sync/pkg/kvstore"
	"github.com/pesto/remittance-sync/pkg/ledger"
)

var (
	ErrInvalidAddress  = errors.New("invalid chain address")
	ErrDuplicateFriend = errors.New("friend already exists")
)

// AddressValidator checks chain address syntax.
type AddressValidator interface {
	ValidateAddress(address string) bool
}

// State is the contacts view observed by the UI.
type State struct {
	Friends  []contacts.Friend  `json:"friends"`
	Contacts []contacts.Contact `json:"contacts"`
	Loading  bool               `json:"loading"`
	Error    string             `json:"error,omitempty"`
}

// Service defines the contacts store operations
type Service interface {
	Load(ctx context.Context) error

	AddFriend(ctx context.Context, in contacts.NewFriend) (*contacts.Friend, error)
	RemoveFriend(ctx context.Context, id string) error
	UpdateFriend(ctx context.Context, id string, patch contacts.FriendPatch) error
	GetFriendByAddress(address string) (*contacts.Friend, bool)

	AddContact(ctx context.Context, in contacts.NewContact) (*contacts.Contact, error)
	RemoveContact(ctx context.Context, id string) error
	UpdateContact(ctx context.Context, id string, patch contacts.ContactPatch) error

	SearchFriends(query string) []contacts.Friend
	SearchContacts(query string) []contacts.Contact
	IsFriend(address string) bool
	CanSendMoney(address string) bool
	State() State
}

type contactsService struct {
	store     kvstore.Store
	addresses AddressValidator
	validate  *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	// write serializes mutate+persist; mu guards the collections.
	write    sync.Mutex
	mu       sync.RWMutex
	friends  []contacts.Friend
	contacts []contacts.Contact
	loading  bool
	lastErr  string
}

// NewService creates the contacts store. Call Load to read persisted collections.
func NewService(store kvstore.Store, addresses AddressValidator, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &contactsService{
		store:     store,
		addresses: addresses,
		validate:  validator.New(),
		logger:    logger,
		now:       time.Now,
		friends:   []contacts.Friend{},
		contacts:  []contacts.Contact{},
	}
}

// Load reads both collections concurrently. Missing keys load as empty collections.
func (s *contactsService) Load(ctx context.Context) error {
	s.write.Lock()
	defer s.write.Unlock()
	s.begin()

	var friends []contacts.Friend
	var contactList []contacts.Contact

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := kvstore.GetJSON(gctx, s.store, kvstore.KeyFriends, &friends)
		return err
	})
	g.Go(func() error {
		_, err := kvstore.GetJSON(gctx, s.store, kvstore.KeyContacts, &contactList)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load contacts", zap.Error(err))
		s.fail("Failed to load contacts")
		return fmt.Errorf("failed to load contacts: %w", err)
	}

	if friends == nil {
		friends = []contacts.Friend{}
	}
	if contactList == nil {
		contactList = []contacts.Contact{}
	}

	s.mu.Lock()
	s.friends, s.contacts = friends, contactList
	s.loading, s.lastErr = false, ""
	s.mu.Unlock()
	return nil
}

func (s *contactsService) AddFriend(ctx context.Context, in contacts.NewFriend) (*contacts.Friend, error) {
	s.write.Lock()
	defer s.write.Unlock()
	s.begin()

	f, err := s.addFriend(ctx, in)
	if err != nil {
		s.fail("Failed to add friend")
		return nil, err
	}
	s.done()
	return f, nil
}

func (s *contactsService) addFriend(ctx context.Context, in contacts.NewFriend) (*contacts.Friend, error) {
	in.ChainAddress = strings.TrimSpace(in.ChainAddress)
	if !s.addresses.ValidateAddress(in.ChainAddress) {
		return nil, apperrors.BadRequestError(ErrInvalidAddress, "Invalid address")
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid friend")
	}
	if _, ok := s.GetFriendByAddress(in.ChainAddress); ok {
		return nil, apperrors.ConflictError(ErrDuplicateFriend, "Friend already exists")
	}

	f := contacts.Friend{
		ID:                uuid.NewString(),
		Name:              in.Name,
		Username:          in.Username,
		Avatar:            in.Avatar,
		ChainAddress:      in.ChainAddress,
		Verified:          in.Verified,
		LastTransactionAt: in.LastTransactionAt,
		TransactionCount:  0,
		CreatedAt:         s.now().UTC(),
	}

	s.mu.RLock()
	next := append(append(make([]contacts.Friend, 0, len(s.friends)+1), s.friends...), f)
	s.mu.RUnlock()

	if err := s.commitFriends(ctx, next); err != nil {
		return nil, err
	}
	return &f, nil
}

// RemoveFriend deletes the friend with id. An unknown id is a no-op.
func (s *contactsService) RemoveFriend(ctx context.Context, id string) error {
	s.write.Lock()
	defer s.write.Unlock()
	s.begin()

	s.mu.RLock()
	next := make([]contacts.Friend, 0, len(s.friends))
	for _, f := range s.friends {
		if f.ID != id {
			next = append(next, f)
		}
	}
	s.mu.RUnlock()

	if err := s.commitFriends(ctx, next); err != nil {
		s.fail("Failed to remove friend")
		return err
	}
	s.done()
	return nil
}

// UpdateFriend merges patch into the friend with id. An unknown id is a no-op.
func (s *contactsService) UpdateFriend(ctx context.Context, id string, patch contacts.FriendPatch) error {
	s.write.Lock()
	defer s.write.Unlock()
	s.begin()

	if patch.ChainAddress != nil && !s.addresses.ValidateAddress(*patch.ChainAddress) {
		s.fail("Failed to update friend")
		return apperrors.BadRequestError(ErrInvalidAddress, "Invalid address")
	}

	s.mu.RLock()
	next := make([]contacts.Friend, len(s.friends))
	for i, f := range s.friends {
		// a friend address stays unique across the list
		if f.ID != id && patch.ChainAddress != nil && ledger.SameAddress(f.ChainAddress, *patch.ChainAddress) {
			s.mu.RUnlock()
			s.fail("Failed to update friend")
			return apperrors.ConflictError(ErrDuplicateFriend, "Friend already exists")
		}
		if f.ID == id {
			f = patch.Apply(f)
		}
		next[i] = f
	}
	s.mu.RUnlock()

	if err := s.commitFriends(ctx, next); err != nil {
		s.fail("Failed to update friend")
		return err
	}
	s.done()
	return nil
}

func (s *contactsService) GetFriendByAddress(address string) (*contacts.Friend, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.friends {
		if ledger.SameAddress(f.ChainAddress, address) {
			found := f
			return &found, true
		}
	}
	return nil, false
}

func (s *contactsService) AddContact(ctx context.Context, in contacts.NewContact) (*contacts.Contact, error) {
	s.write.Lock()
	defer s.write.Unlock()
	s.begin()

	if err := s.validate.Struct(in); err != nil {
		s.fail("Failed to add contact")
		return nil, apperrors.BadRequestError(err, "invalid contact")
	}

	c := contacts.Contact{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Username:     in.Username,
		Avatar:       in.Avatar,
		ChainAddress: strings.TrimSpace(in.ChainAddress),
		Email:        in.Email,
		Phone:        in.Phone,
		IsChainUser:  in.IsChainUser,
		IsFriend:     in.IsFriend,
		LastSeenAt:   in.LastSeenAt,
	}

	s.mu.RLock()
	next := append(append(make([]contacts.Contact, 0, len(s.contacts)+1), s.contacts...), c)
	s.mu.RUnlock()

	if err := s.commitContacts(ctx, next); err != nil {
		s.fail("Failed to add contact")
		return nil, err
	}
	s.done()
	return &c, nil
}

// RemoveContact deletes the contact with id. An unknown id is a no-op.
func (s *contactsService) RemoveContact(ctx context.Context, id string) error {
	s.write.Lock()
	defer s.write.Unlock()
	s.begin()

	s.mu.RLock()
	next := make([]contacts.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if c.ID != id {
			next = append(next, c)
		}
	}
	s.mu.RUnlock()

	if err := s.commitContacts(ctx, next); err != nil {
		s.fail("Failed to remove contact")
		return err
	}
	s.done()
	return nil
}

// UpdateContact merges patch into the contact with id. An unknown id is a no-op.
func (s *contactsService) UpdateContact(ctx context.Context, id string, patch contacts.ContactPatch) error {
	s.write.Lock()
	defer s.write.Unlock()
	s.begin()

	s.mu.RLock()
	next := make([]contacts.Contact, len(s.contacts))
	for i, c := range s.contacts {
		if c.ID == id {
			c = patch.Apply(c)
		}
		next[i] = c
	}
	s.mu.RUnlock()

	if err := s.commitContacts(ctx, next); err != nil {
		s.fail("Failed to update contact")
		return err
	}
	s.done()
	return nil
}

// SearchFriends matches name, username or address, case-insensitively.
func (s *contactsService) SearchFriends(query string) []contacts.Friend {
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []contacts.Friend{}
	for _, f := range s.friends {
		if contains(f.Name, q) || contains(f.Username, q) || contains(f.ChainAddress, q) {
			out = append(out, f)
		}
	}
	return out
}

// SearchContacts matches name, username or email, case-insensitively.
func (s *contactsService) SearchContacts(query string) []contacts.Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []contacts.Contact{}
	for _, c := range s.contacts {
		if contains(c.Name, q) || contains(c.Username, q) || contains(c.Email, q) {
			out = append(out, c)
		}
	}
	return out
}

func (s *contactsService) IsFriend(address string) bool {
	_, ok := s.GetFriendByAddress(address)
	return ok
}

// CanSendMoney reports whether address is a friend or a contact flagged as a chain user.
// It is the authorization gate for transfers.
func (s *contactsService) CanSendMoney(address string) bool {
	if address == "" {
		return false
	}
	if s.IsFriend(address) {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contacts {
		if c.IsChainUser && ledger.SameAddress(c.ChainAddress, address) {
			return true
		}
	}
	return false
}

func (s *contactsService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Friends:  append([]contacts.Friend{}, s.friends...),
		Contacts: append([]contacts.Contact{}, s.contacts...),
		Loading:  s.loading,
		Error:    s.lastErr,
	}
}

// commitFriends persists next and only then makes it visible.
func (s *contactsService) commitFriends(ctx context.Context, next []contacts.Friend) error {
	if err := kvstore.SetJSON(ctx, s.store, kvstore.KeyFriends, next); err != nil {
		s.logger.Error("failed to store friends", zap.Error(err))
		return fmt.Errorf("failed to store friends: %w", err)
	}
	s.mu.Lock()
	s.friends = next
	s.mu.Unlock()
	return nil
}

func (s *contactsService) commitContacts(ctx context.Context, next []contacts.Contact) error {
	if err := kvstore.SetJSON(ctx, s.store, kvstore.KeyContacts, next); err != nil {
		s.logger.Error("failed to store contacts", zap.Error(err))
		return fmt.Errorf("failed to store contacts: %w", err)
	}
	s.mu.Lock()
	s.contacts = next
	s.mu.Unlock()
	return nil
}

func (s *contactsService) begin() {
	s.mu.Lock()
	s.loading, s.lastErr = true, ""
	s.mu.Unlock()
}

func (s *contactsService) done() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *contactsService) fail(msg string) {
	s.mu.Lock()
	s.loading, s.lastErr = false, msg
	s.mu.Unlock()
}

func contains(field, q string) bool {
	return strings.Contains(strings.ToLower(field), q)
}
