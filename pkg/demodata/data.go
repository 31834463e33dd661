package demodata

import (
	"strings"
	"time"

	"github.com/pesto/remittance-sync/pkg/contacts"
	"github.com/pesto/remittance-sync/pkg/ledger"
	"github.com/pesto/remittance-sync/pkg/user"
)

// DemoPassword is the credential of every seeded user.
const DemoPassword = "pesto123"

// AssetSummary is the portfolio headline shown on the home screen.
type AssetSummary struct {
	TotalAssetsUSD       float64 `json:"totalAssetsUsd"`
	NativeBalance        float64 `json:"aptBalance"`
	Points               float64 `json:"aptosPoints"`
	MonthOverMonthChange float64 `json:"monthOverMonthChange"`
	PointsChange         float64 `json:"aptosPointsChange"`
}

// PromoCard is a promotional banner.
type PromoCard struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
}

// SpotlightAsset is a pre-formatted market highlight.
type SpotlightAsset struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AmountUSD string `json:"amountUsd"`
	Change    string `json:"change"`
	Positive  bool   `json:"positive"`
	Color     string `json:"color"`
}

// dataset is the full seeded content, keyed by user id where per-user.
type dataset struct {
	users        []user.User
	friends      map[string][]contacts.Friend
	contacts     map[string][]contacts.Contact
	transactions map[string][]ledger.Transaction
	assets       map[string][]ledger.Asset
	summaries    map[string]AssetSummary
	promoCards   map[string][]PromoCard
	spotlight    map[string][]SpotlightAsset
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}

func unsplash(photo string, width int) string {
	return "https://images.unsplash.com/photo-" + photo + "?auto=format&fit=crop&w=" + itoa(width) + "&q=60"
}

func itoa(n int) string {
	switch n {
	case 200:
		return "200"
	default:
		return "600"
	}
}

func seed() *dataset {
	const ava = "user-ava"

	users := []user.User{
		{
			ID:           ava,
			Email:        "ava@pesto.dev",
			Name:         "Ava Howard",
			Avatar:       unsplash("1517841905240-472988babdf9", 200),
			ChainAddress: "0x81d41a31fb5d3f827d188511e6fca1ddbed6cfa0ffbd46fa6d84a7adfe59f356",
			CreatedAt:    ts("2022-04-18T09:15:00Z"),
			UpdatedAt:    ts("2024-02-01T11:00:00Z"),
		},
		{
			ID:           "user-mason",
			Email:        "mason@pesto.dev",
			Name:         "Mason Price",
			Avatar:       unsplash("1524504388940-b1c1722653e1", 200),
			ChainAddress: "0x209154f6e735562ff13b963b91588039a162fa95f409c068f917f27b762dfff8",
			CreatedAt:    ts("2022-05-02T12:25:00Z"),
			UpdatedAt:    ts("2024-02-01T11:00:00Z"),
		},
	}

	friends := []contacts.Friend{
		{
			ID:                "friend-sherry",
			Name:              "Sherry Collins",
			Username:          "@sherry",
			Avatar:            unsplash("1502685104226-ee32379fefbe", 200),
			ChainAddress:      "0xd4e43fa15a4cf475b35f7278f02ae5a694e14fbd7ef2494e39e7978781b3eefe",
			Verified:          true,
			LastTransactionAt: tsp("2024-02-07T16:40:00Z"),
			TransactionCount:  42,
			CreatedAt:         ts("2022-05-14T10:00:00Z"),
		},
		{
			ID:                "friend-eric",
			Name:              "Eric Ma",
			Username:          "@nebulanomad",
			Avatar:            unsplash("1544723795-3fb6469f5b39", 200),
			ChainAddress:      "0xf16cdebe221b819504c96014b81b0903fd345c3c066415a30ec75148358426dc",
			Verified:          true,
			LastTransactionAt: tsp("2024-02-05T12:20:00Z"),
			TransactionCount:  31,
			CreatedAt:         ts("2021-11-04T08:30:00Z"),
		},
		{
			ID:                "friend-luna",
			Name:              "Luna Ortiz",
			Username:          "@luna",
			Avatar:            unsplash("1504593811423-6dd665756598", 200),
			ChainAddress:      "0x6c8a3474cb49202515d121fea0f3217d303e41f6bdc43e615f1cd90855118089",
			Verified:          true,
			LastTransactionAt: tsp("2024-02-02T18:05:00Z"),
			TransactionCount:  28,
			CreatedAt:         ts("2022-02-22T14:45:00Z"),
		},
		{
			ID:                "friend-jamal",
			Name:              "Jamal Rivers",
			Username:          "@shadowstar",
			Avatar:            unsplash("1521572163474-6864f9cf17ab", 200),
			ChainAddress:      "0x4cf01e6c54a8ec918bf1b5666ffa26dcea3dc8044bdf011a58df1aeae9756fa5",
			Verified:          false,
			LastTransactionAt: tsp("2024-01-30T10:10:00Z"),
			TransactionCount:  19,
			CreatedAt:         ts("2023-03-12T09:10:00Z"),
		},
	}

	me := users[0].ChainAddress
	sherry, eric, luna := friends[0], friends[1], friends[2]

	transactions := []ledger.Transaction{
		{
			ID:          "txn-1001",
			Type:        ledger.TransactionSend,
			Amount:      45,
			AssetSymbol: "APT",
			FromAddress: me,
			ToAddress:   sherry.ChainAddress,
			ToUserID:    sherry.ID,
			Status:      ledger.StatusCompleted,
			Message:     "Dinner at Nopalito",
			Timestamp:   ts("2024-02-07T16:40:00Z"),
			Hash:        "0x8d4f644d2a5995b5ea847f79cf6f2aa8d4417b42d3f72681a42059eb7e4f718c",
			Fee:         0.0004,
		},
		{
			ID:          "txn-1002",
			Type:        ledger.TransactionRequest,
			Amount:      230,
			AssetSymbol: "APT",
			FromAddress: eric.ChainAddress,
			ToAddress:   me,
			FromUserID:  eric.ID,
			Status:      ledger.StatusPending,
			Timestamp:   ts("2024-02-06T11:20:00Z"),
			Hash:        "0x6f3052b967f1d4591d67a64f6a0dc5374096a984a5dd09a67b082b96b02e58f1",
			Fee:         0.0003,
		},
		{
			ID:          "txn-1003",
			Type:        ledger.TransactionReceive,
			Amount:      102,
			AssetSymbol: "USDC",
			FromAddress: luna.ChainAddress,
			ToAddress:   me,
			FromUserID:  luna.ID,
			Status:      ledger.StatusCompleted,
			Message:     "Thanks for the tickets!",
			Timestamp:   ts("2024-02-04T19:15:00Z"),
			Hash:        "0xa9ffb84768412c5f7d6c33fce3236729098a3d6cf8ab97d5de4a28a1c9c22b3e",
			Fee:         0.0005,
		},
		{
			ID:          "txn-1004",
			Type:        ledger.TransactionSend,
			Amount:      45,
			AssetSymbol: "APT",
			FromAddress: me,
			ToAddress:   sherry.ChainAddress,
			ToUserID:    sherry.ID,
			Status:      ledger.StatusCompleted,
			Timestamp:   ts("2024-01-30T09:45:00Z"),
			Hash:        "0xbc4fbaa3b9e58fd764045701a4bcf82272ae60c61279c6a5e3a1d44e2e783c98",
			Fee:         0.0004,
		},
	}

	assets := []ledger.Asset{
		{ID: "apt", Symbol: "APT", Name: "Aptos", Icon: "apt", Balance: 2405, USDValue: 4.51, Change24h: 115.24, ChangePercent: 12, Decimals: 8},
		{ID: "usdc", Symbol: "USDC", Name: "USD Coin", Icon: "usdc", Balance: 1000, USDValue: 1, Change24h: -4.11, ChangePercent: -4, Decimals: 6},
		{ID: "usdt", Symbol: "USDT", Name: "Tether", Icon: "usdt", Balance: 500, USDValue: 1, Change24h: 45, ChangePercent: 9, Decimals: 6},
		{ID: "wbtc", Symbol: "wBTC", Name: "Wrapped Bitcoin", Icon: "wbtc", Balance: 0.1, USDValue: 115000, Change24h: 3789, ChangePercent: 33, Decimals: 8},
	}

	return &dataset{
		users:        users,
		friends:      map[string][]contacts.Friend{ava: friends},
		contacts:     map[string][]contacts.Contact{ava: contactsFromFriends(friends)},
		transactions: map[string][]ledger.Transaction{ava: transactions},
		assets:       map[string][]ledger.Asset{ava: assets},
		summaries: map[string]AssetSummary{
			ava: {
				TotalAssetsUSD:       45678.9,
				NativeBalance:        2405,
				Points:               2045,
				MonthOverMonthChange: 0.20,
				PointsChange:         0.33,
			},
		},
		promoCards: map[string][]PromoCard{
			ava: {
				{ID: "promo-pear", Title: "Pesto", Subtitle: "Fresh picks, just in time", Image: unsplash("1511690743698-d9d85f2fbf38", 600)},
				{ID: "promo-seasonal", Title: "Seasonal bundles", Subtitle: "Save 15% on curated baskets", Image: unsplash("1484981137419-0c1a8f9c3760", 600)},
			},
		},
		spotlight: map[string][]SpotlightAsset{
			ava: {
				{ID: "wbtc-info", Name: "Wrapped Bitcoin - WBTC", AmountUSD: "$115,000", Change: "+33% month over month", Positive: true, Color: "#F7931A"},
				{ID: "apt-info", Name: "Aptos - APT", AmountUSD: "$4.51", Change: "+12% month over month", Positive: true, Color: "#000000"},
				{ID: "usdc-info", Name: "USDC", AmountUSD: "$0.9997", Change: "-4% month over month", Positive: false, Color: "#2775CA"},
				{ID: "usdt-info", Name: "Tether - USDT", AmountUSD: "$1.00", Change: "+9% month over month", Positive: true, Color: "#26A17B"},
				{ID: "kapt-info", Name: "Kofi Aptos - KAPT", AmountUSD: "$4.47", Change: "+3% month over month", Positive: true, Color: "#2ECC71"},
				{ID: "amapt-info", Name: "Amnis Aptos - AMAPT", AmountUSD: "$4.44", Change: "+4% month over month", Positive: true, Color: "#2775CA"},
			},
		},
	}
}

// contactsFromFriends derives the address book entry of every friend.
func contactsFromFriends(friends []contacts.Friend) []contacts.Contact {
	lastSeen := ts("2024-02-07T18:20:00Z")
	out := make([]contacts.Contact, 0, len(friends))
	for _, f := range friends {
		seen := lastSeen
		out = append(out, contacts.Contact{
			ID:           "contact-" + f.ID,
			Name:         f.Name,
			Username:     f.Username,
			Avatar:       f.Avatar,
			ChainAddress: f.ChainAddress,
			Email:        strings.TrimPrefix(f.Username, "@") + "@pesto.dev",
			Phone:        "+1 (415) 555-01" + f.ID[len(f.ID)-2:],
			IsChainUser:  true,
			IsFriend:     true,
			LastSeenAt:   &seen,
		})
	}
	return out
}
