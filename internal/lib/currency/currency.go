// Package currency переводит бюджет из валюты отображения в опорную единицу (USD)
// и определяет по нему максимальный допустимый уровень цен заведения.
package currency

import "strings"

// Currency — валюта из справочника с курсом относительно USD.
type Currency struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"` // Сколько единиц валюты за 1 USD
}

var currencies = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$", Rate: 1},
	{Code: "EUR", Name: "Euro", Symbol: "€", Rate: 0.92},
	{Code: "GBP", Name: "British Pound", Symbol: "£", Rate: 0.79},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Rate: 149.5},
	{Code: "PHP", Name: "Philippine Peso", Symbol: "₱", Rate: 56.5},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", Rate: 7.24},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹", Rate: 83.2},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Rate: 1.52},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Rate: 1.35},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", Rate: 1.34},
	{Code: "HKD", Name: "Hong Kong Dollar", Symbol: "HK$", Rate: 7.83},
	{Code: "KRW", Name: "South Korean Won", Symbol: "₩", Rate: 1320},
	{Code: "MYR", Name: "Malaysian Ringgit", Symbol: "RM", Rate: 4.72},
	{Code: "THB", Name: "Thai Baht", Symbol: "฿", Rate: 35.8},
	{Code: "IDR", Name: "Indonesian Rupiah", Symbol: "Rp", Rate: 15680},
	{Code: "VND", Name: "Vietnamese Dong", Symbol: "₫", Rate: 24500},
	{Code: "NZD", Name: "New Zealand Dollar", Symbol: "NZ$", Rate: 1.67},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF", Rate: 0.88},
	{Code: "SEK", Name: "Swedish Krona", Symbol: "kr", Rate: 10.5},
	{Code: "NOK", Name: "Norwegian Krone", Symbol: "kr", Rate: 10.8},
	{Code: "DKK", Name: "Danish Krone", Symbol: "kr", Rate: 6.87},
	{Code: "PLN", Name: "Polish Zloty", Symbol: "zł", Rate: 4.02},
	{Code: "CZK", Name: "Czech Koruna", Symbol: "Kč", Rate: 22.8},
	{Code: "HUF", Name: "Hungarian Forint", Symbol: "Ft", Rate: 360},
	{Code: "RUB", Name: "Russian Ruble", Symbol: "₽", Rate: 92},
	{Code: "TRY", Name: "Turkish Lira", Symbol: "₺", Rate: 32.5},
	{Code: "BRL", Name: "Brazilian Real", Symbol: "R$", Rate: 5.02},
	{Code: "MXN", Name: "Mexican Peso", Symbol: "Mex$", Rate: 17.1},
	{Code: "ARS", Name: "Argentine Peso", Symbol: "ARS$", Rate: 850},
	{Code: "ZAR", Name: "South African Rand", Symbol: "R", Rate: 18.5},
	{Code: "AED", Name: "UAE Dirham", Symbol: "د.إ", Rate: 3.67},
	{Code: "SAR", Name: "Saudi Riyal", Symbol: "SR", Rate: 3.75},
	{Code: "EGP", Name: "Egyptian Pound", Symbol: "E£", Rate: 49},
}

var byCode = func() map[string]Currency {
	m := make(map[string]Currency, len(currencies))
	for _, c := range currencies {
		m[c.Code] = c
	}
	return m
}()

// All возвращает копию справочника валют.
func All() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// Lookup ищет валюту по коду без учёта регистра.
func Lookup(code string) (Currency, bool) {
	c, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// ToReference переводит сумму в USD. Для неизвестной валюты сумма не меняется.
func ToReference(amount float64, code string) float64 {
	c, ok := Lookup(code)
	if !ok {
		return amount
	}
	return amount / c.Rate
}

// FromReference переводит сумму из USD в валюту. Для неизвестной валюты сумма не меняется.
func FromReference(amount float64, code string) float64 {
	c, ok := Lookup(code)
	if !ok {
		return amount
	}
	return amount * c.Rate
}

// PriceTier возвращает верхнюю границу уровня цен (1..4) для бюджета в USD.
func PriceTier(reference float64) int {
	switch {
	case reference < 10:
		return 1
	case reference < 30:
		return 2
	case reference < 60:
		return 3
	default:
		return 4
	}
}

// MaxPriceLevel — сокращение для PriceTier(ToReference(amount, code)).
func MaxPriceLevel(amount float64, code string) int {
	return PriceTier(ToReference(amount, code))
}
