package css

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser tokenizes stylesheets and style attributes. Damage never fails the
// parse: whatever could not be understood is skipped and reported as a
// warning.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// ParseStylesheet extracts id-targeted rules from stylesheet text. The
// optional source parameter identifies what's being parsed (for debug
// logging and warnings).
func (p *Parser) ParseStylesheet(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{Rules: make(map[string]Properties)}

	where := ""
	if len(source) > 0 && source[0] != "" {
		where = source[0]
		p.log.Debug("Parsing stylesheet", zap.String("source", where), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	// Selectors of a comma separated group arrive one by one, the last
	// one together with the ruleset body.
	var pending []string

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			// End of input or error
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				sheet.Warnings = append(sheet.Warnings, warnAt(where, "stylesheet damaged: "+err.Error()))
				p.log.Debug("Stylesheet parse error", zap.Error(err))
			}
			return sheet

		case css.BeginAtRuleGrammar:
			// No at-rule can hide an element here, skip the whole block.
			atRule := string(data)
			p.skipAtRuleBlock(parser)
			p.log.Debug("Skipping @-rule", zap.String("rule", atRule))

		case css.AtRuleGrammar:
			// Simple @-rule without a block (e.g. @import)
			atRule := string(data)
			if atRule == "@import" {
				sheet.Warnings = append(sheet.Warnings, warnAt(where, "@import is not followed, imported rules are ignored"))
			}
			p.log.Debug("Skipping @-rule", zap.String("rule", atRule))

		case css.QualifiedRuleGrammar:
			pending = append(pending, p.parseSelectors(data, parser.Values())...)

		case css.BeginRulesetGrammar:
			selectors := append(pending, p.parseSelectors(data, parser.Values())...)
			pending = nil
			props, warns := p.parseDeclarations(parser)
			for _, w := range warns {
				sheet.Warnings = append(sheet.Warnings, warnAt(where, w))
			}
			for _, sel := range selectors {
				id, ok := idSelector(sel)
				if !ok {
					p.log.Debug("Skipping selector without a single id target", zap.String("selector", sel))
					continue
				}
				merged := sheet.Rules[id]
				if merged == nil {
					merged = make(Properties, len(props))
					sheet.Rules[id] = merged
				}
				merged.Merge(props)
			}
		}
	}
}

// ParseInline parses the declaration list of a style attribute.
func (p *Parser) ParseInline(style string) (Properties, []string) {
	props := make(Properties)
	if strings.TrimSpace(style) == "" {
		return props, nil
	}

	var warnings []string
	input := parse.NewInput(strings.NewReader(style))
	parser := css.NewParser(input, true)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				warnings = append(warnings, "style attribute damaged: "+err.Error())
				p.log.Debug("Style attribute parse error", zap.String("style", style), zap.Error(err))
			}
			return props, warnings

		case css.DeclarationGrammar:
			name := strings.ToLower(string(data))
			if values := parser.Values(); len(values) > 0 {
				props[name] = parseValue(values)
			}

		case css.CustomPropertyGrammar:
			// CSS custom properties (--var) cannot affect visibility.
			continue
		}
	}
}

// warnAt prefixes a warning with its source when one is known.
func warnAt(where, msg string) string {
	if where == "" {
		return msg
	}
	return where + ": " + msg
}

// idSelector reports whether a selector targets exactly one element by id
// and returns that id.
func idSelector(s string) (string, bool) {
	id, ok := strings.CutPrefix(s, "#")
	if !ok || id == "" {
		return "", false
	}
	if strings.ContainsAny(id, " \t\n.#:[>+~*,") {
		return "", false
	}
	return id, true
}

// parseSelectors extracts selector strings from token data.
func (p *Parser) parseSelectors(data []byte, values []css.Token) []string {
	// Build full selector string from data and values
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	selectorStr := sb.String()

	// Split by comma for grouped selectors
	var selectors []string
	for s := range strings.SplitSeq(selectorStr, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser) (Properties, []string) {
	props := make(Properties)
	var warnings []string

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				warnings = append(warnings, "declaration block damaged: "+err.Error())
				p.log.Debug("Declaration parse error", zap.Error(err))
			}
			return props, warnings

		case css.EndRulesetGrammar:
			return props, warnings

		case css.DeclarationGrammar:
			name := strings.ToLower(string(data))
			if values := parser.Values(); len(values) > 0 {
				props[name] = parseValue(values)
			}

		case css.CustomPropertyGrammar:
			continue
		}
	}
}

// parseValue converts declaration value tokens to a Value.
func parseValue(tokens []css.Token) Value {
	// Build raw value string
	var rawParts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			rawParts = append(rawParts, string(t.Data))
		} else if len(rawParts) > 0 {
			rawParts = append(rawParts, " ")
		}
	}
	val := Value{Raw: strings.TrimSpace(strings.Join(rawParts, ""))}

	// Handle single token cases
	if len(tokens) == 1 || (len(tokens) == 2 && tokens[1].TokenType == css.WhitespaceToken) {
		t := tokens[0]
		switch t.TokenType {
		case css.DimensionToken:
			val.Value, val.Unit = parseDimension(string(t.Data))
			val.Numeric = val.Unit != ""
		case css.PercentageToken:
			if v, err := strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64); err == nil {
				val.Value = v
				val.Unit = "%"
				val.Numeric = true
			}
		case css.NumberToken:
			if v, err := strconv.ParseFloat(string(t.Data), 64); err == nil {
				val.Value = v
				val.Numeric = true
			}
		case css.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
		}
		return val
	}

	// Multi-value properties keep the raw text only.
	return val
}

// parseDimension extracts numeric value and unit from dimension token.
func parseDimension(s string) (float64, string) {
	// Find where number ends
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}

	if numEnd == 0 {
		return 0, ""
	}

	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	unit := strings.ToLower(s[numEnd:])
	return num, unit
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}
