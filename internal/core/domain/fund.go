package domain

// FundSummary is the headline figure shown on the fund card.
type FundSummary struct {
	TotalSupply string `json:"totalSupply"`
}

// ZeroSummary is what the fund card shows when the supply cannot be read.
var ZeroSummary = FundSummary{TotalSupply: "0.0"}
