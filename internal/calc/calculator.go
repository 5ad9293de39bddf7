// Package calc holds the four-function calculator state machine and the
// arithmetic expression evaluator used by the chat assistant's calculate
// tool.
package calc

import (
	"fmt"
	"strconv"
	"strings"
)

// Operation is a pending binary operator.
type Operation byte

const (
	OpNone     Operation = 0
	OpAdd      Operation = '+'
	OpSubtract Operation = '-'
	OpMultiply Operation = '*'
	OpDivide   Operation = '/'
)

// Calculator is the running state: the display string, an accumulated
// previous value, the pending operator, and whether the next digit starts a
// fresh operand.
type Calculator struct {
	display           string
	previousValue     *float64
	operation         Operation
	waitingForOperand bool
	expression        string
}

func New() *Calculator {
	return &Calculator{display: "0"}
}

// Display returns the current display string.
func (c *Calculator) Display() string { return c.display }

// Expression returns the running expression shown above the display.
func (c *Calculator) Expression() string { return c.expression }

// InputDigit appends a digit, or starts a fresh operand after an operator.
func (c *Calculator) InputDigit(digit byte) {
	if digit < '0' || digit > '9' {
		return
	}
	if c.waitingForOperand {
		c.display = string(digit)
		c.waitingForOperand = false
		return
	}
	if c.display == "0" {
		c.display = string(digit)
		return
	}
	c.display += string(digit)
}

// InputDecimal appends a decimal point if the operand does not have one yet.
func (c *Calculator) InputDecimal() {
	if c.waitingForOperand {
		c.display = "0."
		c.waitingForOperand = false
		return
	}
	if !strings.Contains(c.display, ".") {
		c.display += "."
	}
}

// Clear resets every piece of state.
func (c *Calculator) Clear() {
	c.display = "0"
	c.previousValue = nil
	c.operation = OpNone
	c.waitingForOperand = false
	c.expression = ""
}

// Backspace removes the last digit, collapsing to "0".
func (c *Calculator) Backspace() {
	if len(c.display) == 1 || (len(c.display) == 2 && strings.HasPrefix(c.display, "-")) {
		c.display = "0"
		return
	}
	c.display = c.display[:len(c.display)-1]
}

// ToggleSign negates the displayed value.
func (c *Calculator) ToggleSign() {
	c.display = formatNumber(c.displayValue() * -1)
}

// Percent divides the displayed value by 100.
func (c *Calculator) Percent() {
	c.display = formatNumber(c.displayValue() / 100)
}

// PerformOperation records a pending operator. When an operator is already
// pending it is applied immediately with the current display value, so
// chained input like "2 + 3 *" shows 5 before the multiplication starts.
func (c *Calculator) PerformOperation(next Operation) {
	inputValue := c.displayValue()

	switch {
	case c.previousValue == nil:
		c.previousValue = &inputValue
		c.expression = fmt.Sprintf("%s %c", formatNumber(inputValue), next)
	case c.operation != OpNone:
		result := apply(c.operation, *c.previousValue, inputValue)
		c.display = formatNumber(result)
		c.previousValue = &result
		c.expression = fmt.Sprintf("%s %c", formatNumber(result), next)
	}

	c.waitingForOperand = true
	c.operation = next
}

// Equals applies the pending operator and clears it.
func (c *Calculator) Equals() {
	if c.operation == OpNone || c.previousValue == nil {
		return
	}
	inputValue := c.displayValue()
	result := apply(c.operation, *c.previousValue, inputValue)
	c.expression = fmt.Sprintf("%s %c %s =", formatNumber(*c.previousValue), c.operation, formatNumber(inputValue))
	c.display = formatNumber(result)
	c.previousValue = nil
	c.operation = OpNone
	c.waitingForOperand = true
}

// Key dispatches a single keyboard key to the matching input, mirroring the
// original key bindings. Unknown keys are ignored.
func (c *Calculator) Key(k rune) {
	switch {
	case k >= '0' && k <= '9':
		c.InputDigit(byte(k))
	case k == '.':
		c.InputDecimal()
	case k == '+' || k == '-' || k == '*' || k == '/':
		c.PerformOperation(Operation(k))
	case k == '=' || k == '\r' || k == '\n':
		c.Equals()
	case k == 'c' || k == 'C' || k == 0x1b:
		c.Clear()
	case k == '\b' || k == 0x7f:
		c.Backspace()
	case k == '%':
		c.Percent()
	}
}

// apply evaluates one binary operation. Division by zero yields 0 instead of
// an error; the original calculator behaves this way and it is preserved.
func apply(op Operation, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSubtract:
		return a - b
	case OpMultiply:
		return a * b
	case OpDivide:
		if b == 0 {
			return 0
		}
		return a / b
	}
	return b
}

func (c *Calculator) displayValue() float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(c.display, "."), 64)
	if err != nil {
		return 0
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
