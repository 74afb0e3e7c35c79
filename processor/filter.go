package processor

import "strings"

// ExclusionList classifies addresses as custodial/exchange-owned. It is an
// injected value so tests can run with synthetic sets instead of the curated
// production list.
type ExclusionList struct {
	addresses map[string]struct{}
	labels    []string
}

// NewExclusionList builds an ExclusionList from an exact-match address set
// and a list of custodial entity name fragments. Fragments are normalised to
// lower case once, up front.
func NewExclusionList(addresses []string, labelFragments []string) ExclusionList {
	set := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		set[a] = struct{}{}
	}
	labels := make([]string, 0, len(labelFragments))
	for _, l := range labelFragments {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			labels = append(labels, l)
		}
	}
	return ExclusionList{addresses: set, labels: labels}
}

// IsCustodial reports whether the address belongs to a known exchange or
// custodian, either by exact address match or by a label fragment match.
// An empty label is treated as no match. Never fails.
func (e ExclusionList) IsCustodial(address, label string) bool {
	if _, ok := e.addresses[address]; ok {
		return true
	}
	if label == "" {
		return false
	}
	labelLower := strings.ToLower(label)
	for _, fragment := range e.labels {
		if strings.Contains(labelLower, fragment) {
			return true
		}
	}
	return false
}
