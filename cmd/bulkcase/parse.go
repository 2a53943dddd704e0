package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/casebulk/nodes"
)

// tokenize splits input into tokens, respecting single-quoted strings
// and recognising multi-char operators (!=, <>, >=, <=, ||) and punctuation.
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inQuote {
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(input) && input[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
				} else {
					inQuote = false
					flush()
				}
			}
			continue
		}

		switch {
		case ch == '\'':
			flush()
			cur.WriteByte(ch)
			inQuote = true

		case ch == '(' || ch == ')' || ch == ',':
			flush()
			tokens = append(tokens, string(ch))

		case ch == '!' && i+1 < len(input) && input[i+1] == '=':
			flush()
			tokens = append(tokens, "!=")
			i++
		case ch == '|' && i+1 < len(input) && input[i+1] == '|':
			flush()
			tokens = append(tokens, "||")
			i++
		case ch == '<' && i+1 < len(input) && input[i+1] == '>':
			flush()
			tokens = append(tokens, "<>")
			i++
		case ch == '<' && i+1 < len(input) && input[i+1] == '=':
			flush()
			tokens = append(tokens, "<=")
			i++
		case ch == '>' && i+1 < len(input) && input[i+1] == '=':
			flush()
			tokens = append(tokens, ">=")
			i++
		case ch == '=' || ch == '>' || ch == '<':
			flush()
			tokens = append(tokens, string(ch))
		case ch == '+' || ch == '*' || ch == '/' || ch == '%':
			flush()
			tokens = append(tokens, string(ch))
		case ch == '-' && cur.Len() == 0 && i+1 < len(input) && isDigit(input[i+1]) && !afterOperand(tokens):
			// negative number literal
			cur.WriteByte(ch)
		case ch == '-':
			flush()
			tokens = append(tokens, "-")

		case ch == ' ' || ch == '\t':
			flush()

		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return tokens
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// afterOperand reports whether the last token ends an operand, making a
// following '-' a binary minus.
func afterOperand(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	last := tokens[len(tokens)-1]
	return last == ")" || (!isArithOp(last) && !isComparison(last) && last != "(" && last != ",")
}

// parseValue converts a token string to a Go value suitable for Literal().
func parseValue(token string) (any, error) {
	lower := strings.ToLower(token)
	if lower == "true" {
		return true, nil
	}
	if lower == "false" {
		return false, nil
	}
	if lower == "null" {
		return nil, nil
	}
	if strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") && len(token) >= 2 {
		inner := token[1 : len(token)-1]
		return strings.ReplaceAll(inner, "''", "'"), nil
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("cannot parse value: %s", token)
}

var arithOps = map[string]nodes.InfixOp{
	"+":  nodes.OpPlus,
	"-":  nodes.OpMinus,
	"*":  nodes.OpMultiply,
	"/":  nodes.OpDivide,
	"%":  nodes.OpModulo,
	"||": nodes.OpConcat,
}

func isArithOp(token string) bool {
	_, ok := arithOps[token]
	return ok
}

var comparisonOps = map[string]nodes.ComparisonOp{
	"=":  nodes.OpEq,
	"!=": nodes.OpNotEq,
	"<>": nodes.OpNotEq,
	">":  nodes.OpGt,
	">=": nodes.OpGtEq,
	"<":  nodes.OpLt,
	"<=": nodes.OpLtEq,
}

func isComparison(token string) bool {
	_, ok := comparisonOps[token]
	return ok
}

func isIdentifier(token string) bool {
	if token == "" {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c != '_' && !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') && !(i > 0 && isDigit(c)) {
			return false
		}
	}
	return true
}

// parseAtom parses a literal, a column name or a parenthesised expression.
func parseAtom(tokens []string, pos int) (nodes.Node, int, error) {
	if pos >= len(tokens) {
		return nil, pos, errors.New("expected expression")
	}
	tok := tokens[pos]
	if tok == "(" {
		inner, next, err := parseArith(tokens, pos+1)
		if err != nil {
			return nil, next, err
		}
		if next >= len(tokens) || tokens[next] != ")" {
			return nil, next, errors.New("expected )")
		}
		return nodes.Group(inner), next + 1, nil
	}
	if v, err := parseValue(tok); err == nil {
		return nodes.Literal(v), pos + 1, nil
	}
	if isIdentifier(tok) {
		return nodes.F(tok), pos + 1, nil
	}
	return nil, pos, fmt.Errorf("unexpected token %q", tok)
}

// parseArith parses a left-associative chain of atoms joined by arithmetic
// operators.
func parseArith(tokens []string, pos int) (nodes.Node, int, error) {
	left, pos, err := parseAtom(tokens, pos)
	if err != nil {
		return nil, pos, err
	}
	for pos < len(tokens) && isArithOp(tokens[pos]) {
		op := tokens[pos]
		right, next, err := parseAtom(tokens, pos+1)
		if err != nil {
			return nil, next, fmt.Errorf("after %s: %w", op, err)
		}
		left = nodes.NewInfixNode(left, right, arithOps[op])
		pos = next
	}
	return left, pos, nil
}

// parseValueExpr parses the right-hand side of an assignment. A lone literal
// is returned as its Go value so it is bound with the column's type; any
// other expression is returned as an unresolved node.
func parseValueExpr(tokens []string) (any, error) {
	if len(tokens) == 0 {
		return nil, errors.New("expected value")
	}
	if len(tokens) == 1 {
		if v, err := parseValue(tokens[0]); err == nil {
			return v, nil
		}
	}
	n, pos, err := parseArith(tokens, 0)
	if err != nil {
		return nil, err
	}
	if pos != len(tokens) {
		return nil, fmt.Errorf("unexpected token %q", tokens[pos])
	}
	return n, nil
}

// parseCondition parses "<expr> <op> <expr>".
func parseCondition(tokens []string) (nodes.Node, error) {
	left, pos, err := parseArith(tokens, 0)
	if err != nil {
		return nil, err
	}
	if pos >= len(tokens) || !isComparison(tokens[pos]) {
		return nil, errors.New("expected comparison operator")
	}
	op := comparisonOps[tokens[pos]]
	right, end, err := parseArith(tokens, pos+1)
	if err != nil {
		return nil, err
	}
	if end != len(tokens) {
		return nil, fmt.Errorf("unexpected token %q", tokens[end])
	}
	return nodes.NewComparisonNode(left, right, op), nil
}

// splitTokens splits tokens on top-level commas.
func splitTokens(tokens []string) [][]string {
	var out [][]string
	var cur []string
	depth := 0
	for _, t := range tokens {
		switch t {
		case "(":
			depth++
		case ")":
			depth--
		case ",":
			if depth == 0 {
				out = append(out, cur)
				cur = nil
				continue
			}
		}
		cur = append(cur, t)
	}
	return append(out, cur)
}
