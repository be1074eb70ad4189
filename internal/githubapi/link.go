package githubapi

import "strings"

const (
	linkValueSeparatorConstant     = ","
	linkParameterSeparatorConstant = ";"
	linkTargetOpenConstant         = "<"
	linkTargetCloseConstant        = ">"
	linkRelationParameterConstant  = "rel"
	linkNextRelationConstant       = "next"
	parameterAssignmentConstant    = "="
	parameterQuoteConstant         = "\""
)

// ParseNextLink returns the target of the rel="next" entry of a Link header, or an empty string.
// Targets are read between angle brackets first, so commas inside a URL do not split entries.
func ParseNextLink(headerValue string) string {
	remaining := headerValue
	for {
		_, afterOpen, openFound := strings.Cut(remaining, linkTargetOpenConstant)
		if !openFound {
			return ""
		}
		target, afterTarget, closeFound := strings.Cut(afterOpen, linkTargetCloseConstant)
		if !closeFound {
			return ""
		}
		parameters, rest, _ := strings.Cut(afterTarget, linkValueSeparatorConstant)
		if hasNextRelation(parameters) {
			return target
		}
		remaining = rest
	}
}

func hasNextRelation(parameters string) bool {
	for _, parameter := range strings.Split(parameters, linkParameterSeparatorConstant) {
		name, value, found := strings.Cut(strings.TrimSpace(parameter), parameterAssignmentConstant)
		if !found || !strings.EqualFold(strings.TrimSpace(name), linkRelationParameterConstant) {
			continue
		}
		for _, relation := range strings.Fields(strings.Trim(strings.TrimSpace(value), parameterQuoteConstant)) {
			if strings.EqualFold(relation, linkNextRelationConstant) {
				return true
			}
		}
	}
	return false
}
