package klever

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
)

// assetResponse mirrors GET /v1.0/assets/{id}. Pointers distinguish missing fields from zero values.
type assetResponse struct {
	Data *struct {
		Asset *assetPayload `json:"asset"`
	} `json:"data"`
	Error *string `json:"error"`
	Code  *string `json:"code"`
}

type assetPayload struct {
	AssetID           *string         `json:"assetId"`
	Name              *string         `json:"name"`
	Ticker            *string         `json:"ticker"`
	Precision         json.RawMessage `json:"precision"`
	CirculatingSupply json.RawMessage `json:"circulatingSupply"`
	MaxSupply         json.RawMessage `json:"maxSupply"`
	InitialSupply     json.RawMessage `json:"initialSupply"`
	MintedValue       json.RawMessage `json:"mintedValue"`
	BurnedValue       json.RawMessage `json:"burnedValue"`
}

type paginatedResponse struct {
	Pagination *struct {
		TotalRecords *uint64 `json:"totalRecords"`
	} `json:"pagination"`
}

// parseNumber accepts only json number literals, never strings or null
func parseNumber(raw json.RawMessage) (*big.Float, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errFieldMissing
	}

	var number json.Number
	if raw[0] == '"' || json.Unmarshal(raw, &number) != nil || number == "" {
		return nil, fmt.Errorf("expected number, got %s", raw)
	}

	value, _, err := big.ParseFloat(number.String(), 10, 256, big.ToZero)
	if err != nil {
		return nil, fmt.Errorf("invalid number %s: %w", number, err)
	}

	return value, nil
}

// parseSupply floors a non-negative supply. Integer literals are taken exactly.
func parseSupply(raw json.RawMessage) (*big.Int, error) {
	value, err := parseNumber(raw)
	if err != nil {
		return nil, err
	}

	if value.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s", value.Text('g', -1))
	}

	if exact, ok := new(big.Int).SetString(string(bytes.TrimSpace(raw)), 10); ok {
		return exact, nil
	}

	floored, _ := value.Int(nil)

	return floored, nil
}

func parsePrecision(raw json.RawMessage) (uint8, error) {
	value, err := parseNumber(raw)
	if err != nil {
		return 0, err
	}

	if !value.IsInt() {
		return 0, fmt.Errorf("precision is not an integer: %s", value.Text('g', -1))
	}

	precision, _ := value.Int64()
	if precision < 0 || precision > maxPrecision {
		return 0, fmt.Errorf("precision out of range: %d", precision)
	}

	return uint8(precision), nil
}
