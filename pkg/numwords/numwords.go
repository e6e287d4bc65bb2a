// Package numwords convierte montos enteros a su representación en palabras (inglés),
// usada en la línea "Amount in words" de los documentos de factura.
//
// Rango soportado: 0 ≤ n < 10^12 (unidades, miles, millones y billones cortos).
package numwords

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrInvalidArgument se devuelve para montos negativos.
	ErrInvalidArgument = errors.New("numwords: argumento inválido")
	// ErrOutOfRange se devuelve para montos ≥ 10^12; envuelve ErrInvalidArgument.
	ErrOutOfRange = fmt.Errorf("%w: fuera de rango (máximo 999999999999)", ErrInvalidArgument)
)

// Limit primer valor no soportado.
const Limit int64 = 1_000_000_000_000

var belowTwenty = [...]string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = [...]string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

// scales por grupo de tres dígitos, del menos al más significativo.
var scales = [...]string{"", "thousand", "million", "billion"}

// Convert devuelve n en palabras, en minúsculas y separadas por un espacio.
// Los grupos de tres dígitos en cero se omiten: 1000000 → "one million".
func Convert(n int64) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: %d es negativo", ErrInvalidArgument, n)
	}
	if n >= Limit {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}
	if n == 0 {
		return "zero", nil
	}

	var groups []string
	for i := 0; n > 0; i++ {
		g := int(n % 1000)
		n /= 1000
		if g == 0 {
			continue
		}
		words := group(g)
		if scales[i] != "" {
			words = append(words, scales[i])
		}
		// se antepone: los grupos se recorren del menos significativo al más significativo
		groups = append([]string{strings.Join(words, " ")}, groups...)
	}
	return strings.Join(groups, " "), nil
}

// group convierte 1..999 en palabras.
func group(n int) []string {
	var out []string
	if h := n / 100; h > 0 {
		out = append(out, belowTwenty[h], "hundred")
	}
	rest := n % 100
	switch {
	case rest == 0:
	case rest < 20:
		out = append(out, belowTwenty[rest])
	default:
		out = append(out, tens[rest/10])
		if rest%10 != 0 {
			out = append(out, belowTwenty[rest%10])
		}
	}
	return out
}

// Amount convierte las unidades enteras de un monto. La parte fraccionaria se descarta
// (truncamiento hacia cero); un monto negativo devuelve ErrInvalidArgument.
func Amount(d decimal.Decimal) (string, error) {
	if d.IsNegative() {
		return "", fmt.Errorf("%w: monto %s es negativo", ErrInvalidArgument, d.String())
	}
	whole := d.Truncate(0)
	if whole.GreaterThanOrEqual(decimal.NewFromInt(Limit)) {
		return "", fmt.Errorf("%w: %s", ErrOutOfRange, whole.String())
	}
	return Convert(whole.IntPart())
}

// Sentence redacta el monto como frase para documentos, con cada palabra en mayúscula inicial:
// 1250.50 → "Rupees One Thousand Two Hundred Fifty Only".
func Sentence(d decimal.Decimal) (string, error) {
	words, err := Amount(d)
	if err != nil {
		return "", err
	}
	return cases.Title(language.English).String("rupees " + words + " only"), nil
}
