// types/slippage.go
package types

import "math/big"

// SlippageType определяет тип политики проскальзывания
type SlippageType string

const (
	// SlippageFixed использует фиксированное значение minAmountOut
	SlippageFixed SlippageType = "fixed"
	// SlippageBps использует допуск в базисных пунктах от ожидаемого выхода
	SlippageBps SlippageType = "bps"
	// SlippageNone не использует ограничение minAmountOut
	SlippageNone SlippageType = "none"
)

// DefaultSlippageBps is applied when the caller supplies no tolerance (0.5%).
const DefaultSlippageBps = 50

// SlippageConfig конфигурирует политику проскальзывания
type SlippageConfig struct {
	// Type определяет тип политики проскальзывания
	Type SlippageType `json:"type"`
	// Value содержит значение для выбранной политики:
	// - для SlippageFixed: точное значение minAmountOut
	// - для SlippageBps: допуск в базисных пунктах (например, 50 = 0.5%)
	// - для SlippageNone: игнорируется
	Value uint64 `json:"value"`
}

// MinAmountOut вычисляет minAmountOut на основе политики проскальзывания.
// Integer math only: the bps policy floors, so the bound never exceeds the
// expected output.
func (c SlippageConfig) MinAmountOut(expected *big.Int) *big.Int {
	switch c.Type {
	case SlippageFixed:
		return new(big.Int).SetUint64(c.Value)
	case SlippageBps:
		bps := c.Value
		if bps > 10000 {
			bps = 10000
		}
		min := new(big.Int).Mul(expected, big.NewInt(int64(10000-bps)))
		return min.Div(min, big.NewInt(10000))
	case SlippageNone:
		// Минимальное значение для прохождения валидации на контракте.
		return big.NewInt(1)
	default:
		return big.NewInt(1)
	}
}
