package strategy

import (
	"fmt"
	"strings"

	"github.com/agenthands/hiermatch/internal/config"
)

// NewEquality builds the configured equality strategy. The result always
// dispatches on type tags, so nodes of different types never match.
func NewEquality(cfg config.EqualityConfig) (EqualityStrategy, error) {
	def, err := equalityForMode(cfg.Mode, cfg.ReferenceHops)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]EqualityStrategy, len(cfg.ByType))
	for tag, mode := range cfg.ByType {
		s, err := equalityForMode(mode, cfg.ReferenceHops)
		if err != nil {
			return nil, fmt.Errorf("equality for type %s: %w", tag, err)
		}
		byType[tag] = s
	}

	return TypeSwitch{ByType: byType, Default: def}, nil
}

func equalityForMode(mode string, hops int) (EqualityStrategy, error) {
	switch strings.ToLower(mode) {
	case "label":
		return LabelEquality{}, nil
	case "", "structural":
		return StructuralEquality{ReferenceHops: hops}, nil
	default:
		return nil, fmt.Errorf("unsupported equality mode: %s", mode)
	}
}

func NewIgnore(cfg config.IgnoreConfig) IgnoreStrategy {
	var all IgnoreAny
	if len(cfg.Types) > 0 {
		all = append(all, NewIgnoreTypes(cfg.Types...))
	}
	if len(cfg.LabelPrefixes) > 0 {
		all = append(all, IgnoreLabelPrefixes(cfg.LabelPrefixes))
	}
	if len(all) == 0 {
		return IgnoreNone{}
	}
	return all
}

func NewPairing(cfg config.PairingConfig) (ResourcePairing, error) {
	switch strings.ToLower(cfg.Mode) {
	case "", "name":
		return PairByName{}, nil
	case "basename":
		return PairByBaseName{}, nil
	case "index":
		return PairByIndex{}, nil
	default:
		return nil, fmt.Errorf("unsupported pairing mode: %s", cfg.Mode)
	}
}
