// Package contacts holds the friend and contact models and their patch types.
package contacts

import "time"

// Friend is a contact explicitly authorized to receive transfers.
type Friend struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Username          string     `json:"username"`
	Avatar            string     `json:"avatar,omitempty"`
	ChainAddress      string     `json:"chainAddress"`
	Verified          bool       `json:"isVerified"`
	LastTransactionAt *time.Time `json:"lastTransactionDate,omitempty"`
	TransactionCount  int        `json:"totalTransactions"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// Contact is an address book entry. It may lack a chain address.
type Contact struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	Avatar       string     `json:"avatar,omitempty"`
	ChainAddress string     `json:"chainAddress,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	IsChainUser  bool       `json:"isChainUser"`
	IsFriend     bool       `json:"isFriend"`
	LastSeenAt   *time.Time `json:"lastSeen,omitempty"`
}

// NewFriend is the input of AddFriend. Id, creation time and count are assigned.
type NewFriend struct {
	Name              string     `json:"name" validate:"required,max=128"`
	Username          string     `json:"username" validate:"max=64"`
	Avatar            string     `json:"avatar,omitempty"`
	ChainAddress      string     `json:"chainAddress" validate:"required"`
	Verified          bool       `json:"isVerified"`
	LastTransactionAt *time.Time `json:"lastTransactionDate,omitempty"`
}

// NewContact is the input of AddContact.
type NewContact struct {
	Name         string     `json:"name" validate:"required,max=128"`
	Username     string     `json:"username" validate:"max=64"`
	Avatar       string     `json:"avatar,omitempty"`
	ChainAddress string     `json:"chainAddress,omitempty"`
	Email        string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string     `json:"phone,omitempty"`
	IsChainUser  bool       `json:"isChainUser"`
	IsFriend     bool       `json:"isFriend"`
	LastSeenAt   *time.Time `json:"lastSeen,omitempty"`
}

// FriendPatch updates the non-nil fields of a Friend.
type FriendPatch struct {
	Name              *string    `json:"name,omitempty"`
	Username          *string    `json:"username,omitempty"`
	Avatar            *string    `json:"avatar,omitempty"`
	ChainAddress      *string    `json:"chainAddress,omitempty"`
	Verified          *bool      `json:"isVerified,omitempty"`
	LastTransactionAt *time.Time `json:"lastTransactionDate,omitempty"`
	TransactionCount  *int       `json:"totalTransactions,omitempty"`
}

// Apply returns f with the patch merged in. f is not modified.
func (p FriendPatch) Apply(f Friend) Friend {
	setString(&f.Name, p.Name)
	setString(&f.Username, p.Username)
	setString(&f.Avatar, p.Avatar)
	setString(&f.ChainAddress, p.ChainAddress)
	if p.Verified != nil {
		f.Verified = *p.Verified
	}
	if p.LastTransactionAt != nil {
		t := *p.LastTransactionAt
		f.LastTransactionAt = &t
	}
	if p.TransactionCount != nil {
		f.TransactionCount = *p.TransactionCount
	}
	return f
}

// ContactPatch updates the non-nil fields of a Contact.
type ContactPatch struct {
	Name         *string    `json:"name,omitempty"`
	Username     *string    `json:"username,omitempty"`
	Avatar       *string    `json:"avatar,omitempty"`
	ChainAddress *string    `json:"chainAddress,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	IsChainUser  *bool      `json:"isChainUser,omitempty"`
	IsFriend     *bool      `json:"isFriend,omitempty"`
	LastSeenAt   *time.Time `json:"lastSeen,omitempty"`
}

// Apply returns c with the patch merged in. c is not modified.
func (p ContactPatch) Apply(c Contact) Contact {
	setString(&c.Name, p.Name)
	setString(&c.Username, p.Username)
	setString(&c.Avatar, p.Avatar)
	setString(&c.ChainAddress, p.ChainAddress)
	setString(&c.Email, p.Email)
	setString(&c.Phone, p.Phone)
	if p.IsChainUser != nil {
		c.IsChainUser = *p.IsChainUser
	}
	if p.IsFriend != nil {
		c.IsFriend = *p.IsFriend
	}
	if p.LastSeenAt != nil {
		t := *p.LastSeenAt
		c.LastSeenAt = &t
	}
	return c
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
