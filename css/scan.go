package css

import (
	"go.uber.org/zap"
)

// Scanner resolves static visibility across a whole document: id-targeted
// rules collected from its style elements plus each element's own
// attributes. Style attribute declarations override stylesheet rules, which
// override presentation attributes.
type Scanner struct {
	parser   *Parser
	rules    map[string]Properties
	warnings []string
}

// NewScanner creates a scanner with no stylesheet rules.
func NewScanner(log *zap.Logger) *Scanner {
	return &Scanner{
		parser: NewParser(log),
		rules:  make(map[string]Properties),
	}
}

// AddStylesheet folds id-targeted rules from stylesheet text into the
// scanner. Rules added later override earlier ones for the same element and
// property.
func (s *Scanner) AddStylesheet(data []byte, source string) {
	sheet := s.parser.ParseStylesheet(data, source)
	for id, props := range sheet.Rules {
		merged := s.rules[id]
		if merged == nil {
			merged = make(Properties, len(props))
			s.rules[id] = merged
		}
		merged.Merge(props)
	}
	s.warnings = append(s.warnings, sheet.Warnings...)
}

// Scan decides the visibility of a single element.
func (s *Scanner) Scan(el Element) Visibility {
	props := make(Properties)
	props.set("display", el.Display)
	props.set("visibility", el.Visibility)
	props.set("opacity", el.Opacity)
	if el.ID != "" {
		props.Merge(s.rules[el.ID])
	}
	inline, warnings := s.parser.ParseInline(el.Style)
	s.warnings = append(s.warnings, warnings...)
	props.Merge(inline)
	return props.Visibility()
}

// Warnings returns everything that could not be parsed so far.
func (s *Scanner) Warnings() []string {
	return s.warnings
}
