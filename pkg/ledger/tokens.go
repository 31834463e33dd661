package ledger

import (
	"strings"
)

const (
	// NativeCoinType is the chain's native coin.
	NativeCoinType = "0x1::aptos_coin::AptosCoin"
	// NativeDecimals is the decimal exponent of the native coin.
	NativeDecimals int32 = 8
	// NativeSymbol is the ticker of the native coin.
	NativeSymbol = "APT"

	coinStorePrefix = "0x1::coin::CoinStore<"
)

// TokenInfo describes how to display a coin type.
type TokenInfo struct {
	Symbol   string
	Name     string
	Decimals int32
}

var knownTokens = map[string]TokenInfo{
	"aptos_coin": {Symbol: NativeSymbol, Name: "Aptos", Decimals: NativeDecimals},
	"usdc":       {Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	"usdt":       {Symbol: "USDT", Name: "Tether", Decimals: 6},
	"wbtc":       {Symbol: "wBTC", Name: "Wrapped Bitcoin", Decimals: 8},
}

// LookupToken returns display info for a fully qualified coin type
// (address::module::Struct). Unknown modules fall back to their upper-cased
// module name with 8 decimals.
func LookupToken(coinType string) TokenInfo {
	parts := strings.Split(coinType, "::")
	module := coinType
	if len(parts) >= 2 {
		module = parts[1]
	}
	if info, ok := knownTokens[strings.ToLower(module)]; ok {
		return info
	}
	upper := strings.ToUpper(module)
	return TokenInfo{Symbol: upper, Name: upper, Decimals: 8}
}

// CoinStoreType returns the resource type holding balances of coinType.
func CoinStoreType(coinType string) string {
	return coinStorePrefix + coinType + ">"
}

// CoinTypeOf extracts the coin type from a CoinStore resource type.
func CoinTypeOf(resourceType string) (string, bool) {
	if !strings.HasPrefix(resourceType, coinStorePrefix) || !strings.HasSuffix(resourceType, ">") {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(resourceType, coinStorePrefix), ">"), true
}

type coinStoreData struct {
	Coin struct {
		Value string `json:"value"`
	} `json:"coin"`
}

// CoinValue returns the base-unit balance held by a CoinStore resource.
func CoinValue(r Resource) (uint64, bool) {
	if _, ok := CoinTypeOf(r.Type); !ok {
		return 0, false
	}
	var data coinStoreData
	if err := json.Unmarshal(r.Data, &data); err != nil {
		return 0, false
	}
	v, err := parseBaseUnits(data.Coin.Value)
	if err != nil {
		return 0, false
	}
	return v, true
}
