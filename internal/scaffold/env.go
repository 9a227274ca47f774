package scaffold

import (
	"fmt"
	"maps"
	"strings"

	"github.com/joho/godotenv"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/core/effects"
)

// EnvVar is one environment variable requested by a capability.
type EnvVar struct {
	Key    string
	Value  string
	Public bool   // exposed to the browser (client group of lib/env.mjs)
	Schema string // zod declaration, defaults to z.string().min(1)
}

func (v EnvVar) schema() string {
	if v.Schema != "" {
		return v.Schema
	}
	return "z.string().min(1)"
}

// ParseDotEnv reads the variables of a .env file. A malformed line fails
// the whole file in godotenv, so the file is then read line by line and
// the lines that parse are kept.
func ParseDotEnv(content string) map[string]string {
	vars, err := godotenv.Unmarshal(content)
	if err != nil {
		vars = map[string]string{}
		for _, line := range strings.Split(content, "\n") {
			if kv, err := godotenv.Unmarshal(line); err == nil {
				maps.Copy(vars, kv)
			}
		}
	}
	delete(vars, "")
	return vars
}

// AppendDotEnv appends KEY=value lines for keys not already set in a .env
// file. Comments and existing values are preserved.
func AppendDotEnv(existing string, vars []EnvVar) string {
	present := ParseDotEnv(existing)

	out := existing
	for _, v := range vars {
		if _, ok := present[v.Key]; ok {
			continue
		}
		present[v.Key] = v.Value
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += v.Key + "=" + v.Value + "\n"
	}
	return out
}

// PatchEnvSchema adds declarations to a t3 env module: server variables at
// the end of the server group, public ones at the top of the client group
// and of experimental__runtimeEnv. Keys already declared are skipped.
func PatchEnvSchema(existing string, vars []EnvVar) (string, error) {
	out := existing
	for _, v := range vars {
		if declaresKey(out, v.Key) {
			continue
		}
		var err error
		if v.Public {
			out, err = insertAfterLine(out, "client: {", fmt.Sprintf("    %s: %s,", v.Key, v.schema()))
			if err != nil {
				return "", err
			}
			out, err = insertAfterLine(out, "experimental__runtimeEnv: {", fmt.Sprintf("    %s: process.env.%s,", v.Key, v.Key))
		} else {
			out, err = insertServerVar(out, fmt.Sprintf("    %s: %s,", v.Key, v.schema()))
		}
		if err != nil {
			return "", err
		}
	}
	return out, nil
}

func declaresKey(content, key string) bool {
	for _, l := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), key+":") {
			return true
		}
	}
	return false
}

func insertAfterLine(content, marker, line string) (string, error) {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) == marker {
			lines = append(lines[:i+1], append([]string{line}, lines[i+1:]...)...)
			return strings.Join(lines, "\n"), nil
		}
	}
	return "", fmt.Errorf("env schema has no %q group", marker)
}

// insertServerVar inserts before the line closing the server group.
func insertServerVar(content, line string) (string, error) {
	lines := strings.Split(content, "\n")
	start := -1
	for i, l := range lines {
		if strings.TrimSpace(l) == "server: {" {
			start = i
			break
		}
	}
	if start < 0 {
		return "", fmt.Errorf("env schema has no server group")
	}
	depth := 0
	for i := start; i < len(lines); i++ {
		depth += strings.Count(lines[i], "{") - strings.Count(lines[i], "}")
		if depth == 0 {
			lines = append(lines[:i], append([]string{line}, lines[i:]...)...)
			return strings.Join(lines, "\n"), nil
		}
	}
	return "", fmt.Errorf("env schema server group is not closed")
}

// envEffects appends vars to .env and, for Next.js projects, declares them
// in lib/env.mjs, creating it from the template when absent.
func (g *Generator) envEffects(cfg *config.Config, vars []EnvVar) ([]effects.Effect, error) {
	if len(vars) == 0 {
		return nil, nil
	}
	out := []effects.Effect{
		effects.FileEffect{
			Operation: effects.FilePatch,
			Path:      DotEnv,
			Patch: func(existing string) (string, error) {
				return AppendDotEnv(existing, vars), nil
			},
		},
	}
	if !cfg.IsNext() {
		return out, nil
	}

	pv := NewProjectView(cfg)
	seed, err := g.RenderProject("env.mjs", pv)
	if err != nil {
		return nil, err
	}
	out = append(out,
		effects.FileEffect{
			Operation: effects.FilePatch,
			Path:      pv.paths.Root(EnvSchema),
			Content:   seed,
			Patch: func(existing string) (string, error) {
				return PatchEnvSchema(existing, vars)
			},
		},
		effects.InstallEffect{Regular: []string{"@t3-oss/env-nextjs", "zod"}},
	)
	return out, nil
}
