// Package resolve turns user-supplied identifier tokens into node ids.
//
// A token can be an alias, a numeric node index, or a date expression; the
// three interpretations are tried in that order. Commands that operate on
// dates flip the precedence so the date reading is tried first and "friday"
// names the date node even when an alias spells the same word.
package resolve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkoster/tangle/pkg/graph"
)

// ErrBadIdentifier is returned when a token matches none of the recognized
// identifier forms, or matches a form that names no live node.
var ErrBadIdentifier = errors.New("cannot resolve identifier")

// Node resolves token against g. With preferDate false the precedence is
// alias, then numeric index, then date expression; preferDate tries the date
// interpretation before everything else, so even an alias spelled like a
// date word yields the date node. The error reports which interpretations
// were attempted so "tangle check foo" and "tangle check 99" fail with
// different explanations.
func Node(g *graph.Graph, token string, preferDate bool) (graph.NodeID, error) {
	return NodeAt(g, token, preferDate, time.Now())
}

// NodeAt is Node with an explicit reference time for date expressions.
func NodeAt(g *graph.Graph, token string, preferDate bool, now time.Time) (graph.NodeID, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, fmt.Errorf("%w: empty token", ErrBadIdentifier)
	}

	index := func() (graph.NodeID, bool) {
		i, err := strconv.Atoi(token)
		if err != nil {
			return 0, false
		}
		id := graph.NodeID(i)
		if _, err := g.Node(id); err != nil {
			return 0, false
		}
		return id, true
	}
	date := func() (graph.NodeID, bool) {
		d, err := DateAt(token, now)
		if err != nil {
			return 0, false
		}
		return g.ResolveDate(d)
	}

	if preferDate {
		if id, ok := date(); ok {
			return id, nil
		}
	}
	if id, ok := g.ResolveAlias(token); ok {
		return id, nil
	}
	if preferDate {
		if id, ok := index(); ok {
			return id, nil
		}
	} else {
		if id, ok := index(); ok {
			return id, nil
		}
		if id, ok := date(); ok {
			return id, nil
		}
	}

	return 0, fmt.Errorf("%w: %q %s", ErrBadIdentifier, token, describe(g, token, now))
}

// describe names the interpretations that were tried and why each failed,
// for the ErrBadIdentifier message.
func describe(g *graph.Graph, token string, now time.Time) string {
	var tried []string
	tried = append(tried, "no such alias")
	if i, err := strconv.Atoi(token); err == nil {
		tried = append(tried, fmt.Sprintf("node %d does not exist", i))
	}
	if d, err := DateAt(token, now); err == nil {
		tried = append(tried, fmt.Sprintf("no date node for %s", d))
	} else if looksLikeDate(token) {
		tried = append(tried, "not a valid date")
	}
	return "(" + strings.Join(tried, "; ") + ")"
}

func looksLikeDate(token string) bool {
	return strings.Count(token, "-") == 2 || strings.ContainsAny(token, "0123456789") && strings.Contains(token, " ")
}
