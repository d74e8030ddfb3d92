package classify

import (
	"strings"

	"github.com/newspulse/newspulse/pkg/domain"
)

type categoryKeywords struct {
	category domain.Category
	keywords []string
}

// categories are checked in order, the first with a matching keyword wins
var categories = []categoryKeywords{
	{domain.CategoryStockMarket, []string{
		"stock", "market", "shares", "equity", "nasdaq", "dow jones", "s&p", "ipo", "dividend", "earnings",
		"valuation", "bull market", "bear market", "index", "futures", "options", "etf", "mutual fund",
		"trading", "brokerage",
	}},
	{domain.CategoryCryptocurrency, []string{
		"crypto", "cryptocurrency", "bitcoin", "ethereum", "blockchain", "altcoin", "token", "defi", "nft",
		"stablecoin", "wallet", "smart contract", "mining", "staking", "exchange", "ledger", "metaverse",
		"airdrops", "tokenomics",
	}},
	{domain.CategoryBanking, []string{
		"bank", "loan", "mortgage", "interest rate", "credit", "debit", "deposit", "withdrawal", "overdraft",
		"savings account", "checking account", "wire transfer", "atm", "capital adequacy", "lending",
		"branch", "regulation", "compliance", "bankruptcy",
	}},
	{domain.CategoryEconomy, []string{
		"economy", "gdp", "inflation", "unemployment", "recession", "fiscal", "monetary", "policy",
		"central bank", "stimulus", "trade deficit", "exports", "imports", "tariff", "subsidy",
		"sovereign debt", "currency", "exchange rate", "foreign reserves", "consumer spending",
		"housing market",
	}},
}

// Categorize returns the first category with a keyword contained in the lowercased text,
// Other when none matches. Matching is by substring, so "stocks" and "marketing" match too.
func Categorize(text string) domain.Category {
	text = strings.ToLower(text)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(text, kw) {
				return c.category
			}
		}
	}
	return domain.CategoryOther
}
