package infra

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var modelText string

//go:embed policy.csv
var policyText []byte

// NewEnforcer builds an enforcer from the embedded role model and policy.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("parse rbac model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create rbac enforcer: %w", err)
	}

	if err := LoadPolicy(e, policyText); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadPolicy adds "p, sub, obj, act" and "g, child, parent" lines to e.
// Blank lines and lines starting with # are skipped.
func LoadPolicy(e *casbin.Enforcer, policy []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(policy))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		switch {
		case fields[0] == "p" && len(fields) == 4:
			if _, err := e.AddPolicy(fields[1], fields[2], fields[3]); err != nil {
				return fmt.Errorf("policy line %d: %w", lineNo, err)
			}
		case fields[0] == "g" && len(fields) == 3:
			if _, err := e.AddGroupingPolicy(fields[1], fields[2]); err != nil {
				return fmt.Errorf("policy line %d: %w", lineNo, err)
			}
		default:
			return fmt.Errorf("policy line %d: malformed %q", lineNo, line)
		}
	}
	return scanner.Err()
}
