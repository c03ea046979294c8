package domain

import (
	"github.com/shopspring/decimal"
)

// Limites de transação em USD (inclusivos nas duas pontas).
var (
	MinTransactionUSD = decimal.NewFromInt(10)
	MaxTransactionUSD = decimal.NewFromInt(10000)
)

// MinProfitMarginPct é a margem mínima garantida (8%). A tabela de tiers
// deveria tornar impossível ficar abaixo disso — checamos mesmo assim.
var MinProfitMarginPct = decimal.NewFromInt(8)

// ConversionTier é uma faixa de valor em USD com taxa de conversão fixa.
// Limite superior exclusivo; o último tier é aberto (Open = true).
type ConversionTier struct {
	Name   string
	MinUSD decimal.Decimal
	MaxUSD decimal.Decimal
	Open   bool
	Rate   decimal.Decimal
}

func (t ConversionTier) contains(amount decimal.Decimal) bool {
	if amount.LessThan(t.MinUSD) {
		return false
	}
	return t.Open || amount.LessThan(t.MaxUSD)
}

// conversionTiers é contígua, ordenada por MinUSD e cobre todo o range
// [MinTransactionUSD, MaxTransactionUSD]. Quanto maior o valor, melhor a taxa.
var conversionTiers = []ConversionTier{
	{Name: "Starter", MinUSD: decimal.NewFromInt(10), MaxUSD: decimal.NewFromInt(100), Rate: decimal.NewFromFloat(0.85)},
	{Name: "Basic", MinUSD: decimal.NewFromInt(100), MaxUSD: decimal.NewFromInt(400), Rate: decimal.NewFromFloat(0.88)},
	{Name: "Standard", MinUSD: decimal.NewFromInt(400), MaxUSD: decimal.NewFromInt(1000), Rate: decimal.NewFromFloat(0.90)},
	{Name: "Premium", MinUSD: decimal.NewFromInt(1000), MaxUSD: decimal.NewFromInt(5000), Rate: decimal.NewFromFloat(0.91)},
	{Name: "VIP", MinUSD: decimal.NewFromInt(5000), Open: true, Rate: decimal.NewFromFloat(0.92)},
}

// ConversionQuote é o resultado imutável do cálculo de conversão.
type ConversionQuote struct {
	USDAmount     decimal.Decimal
	USDTAmount    decimal.Decimal
	Rate          decimal.Decimal
	FeeAmount     decimal.Decimal
	FeePercentage decimal.Decimal
	TierName      string
}

// CalculateConversion converte USD em USDT pela tabela de tiers.
// Função pura: sem I/O, determinística e idempotente para a mesma entrada.
func CalculateConversion(amount decimal.Decimal) (*ConversionQuote, error) {
	if amount.LessThan(MinTransactionUSD) || amount.GreaterThan(MaxTransactionUSD) {
		return nil, ErrAmountOutOfRange
	}

	tier, err := TierFor(amount)
	if err != nil {
		return nil, err
	}

	// Truncamos (nunca arredondamos para cima) em 2 casas: assim o fee
	// calculado jamais fica abaixo da margem nominal do tier por arredondamento.
	usdtAmount := amount.Mul(tier.Rate).Truncate(2)
	feeAmount := amount.Sub(usdtAmount)
	feePercentage := feeAmount.Div(amount).Mul(decimal.NewFromInt(100))

	if feePercentage.LessThan(MinProfitMarginPct) {
		return nil, ErrMarginViolation
	}

	return &ConversionQuote{
		USDAmount:     amount,
		USDTAmount:    usdtAmount,
		Rate:          tier.Rate,
		FeeAmount:     feeAmount,
		FeePercentage: feePercentage,
		TierName:      tier.Name,
	}, nil
}

// TierFor localiza o tier único que contém o valor.
// ErrNoTierMatch deveria ser inalcançável com a tabela contígua — se aparecer,
// é falha de consistência interna, não erro do usuário.
func TierFor(amount decimal.Decimal) (*ConversionTier, error) {
	if amount.LessThan(MinTransactionUSD) || amount.GreaterThan(MaxTransactionUSD) {
		return nil, ErrAmountOutOfRange
	}
	for i := range conversionTiers {
		if conversionTiers[i].contains(amount) {
			return &conversionTiers[i], nil
		}
	}
	return nil, ErrNoTierMatch
}

// TierInfo é um tier acompanhado de um exemplo calculado para exibição.
type TierInfo struct {
	Tier        ConversionTier
	ExampleUSD  decimal.Decimal
	ExampleUSDT decimal.Decimal
}

// ListTiers devolve a tabela inteira com um exemplo por tier
// (valor = piso do tier + 50).
func ListTiers() []TierInfo {
	out := make([]TierInfo, 0, len(conversionTiers))
	for _, tier := range conversionTiers {
		example := tier.MinUSD.Add(decimal.NewFromInt(50))
		out = append(out, TierInfo{
			Tier:        tier,
			ExampleUSD:  example,
			ExampleUSDT: example.Mul(tier.Rate).Truncate(2),
		})
	}
	return out
}
