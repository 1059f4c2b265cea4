package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed schemas
var schemasFS embed.FS

// Registry хранит скомпилированные JSON-схемы входящих контрактов.
// Создается один раз при старте приложения, ошибки компиляции
// возвращаются вызывающему вместо падения в init.
type Registry struct {
	compiled map[string]*jsonschema.Schema
}

// NewRegistry обходит встроенные схемы, компилирует их и регистрирует
// под ключами вида "UrgentSaleApplication/1.0.0".
func NewRegistry() (*Registry, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// Сначала добавляем все схемы как ресурсы, чтобы работали ссылки через `$ref`
	err := fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := schemasFS.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open schema %s: %w", path, err)
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking and adding schema resources: %w", err)
	}

	registry := &Registry{compiled: make(map[string]*jsonschema.Schema)}

	// Снова обходим для компиляции и регистрации
	err = fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		key := generateKeyFromPath(path)
		if key == "" {
			return fmt.Errorf("schema path %s does not match <group>/<name>/vN.json layout", path)
		}
		registry.compiled[key] = schema
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking and compiling schemas: %w", err)
	}

	return registry, nil
}

// generateKeyFromPath преобразует путь вида "schemas/leads/urgent-sale-application/v1.json"
// в ключ вида "UrgentSaleApplication/1.0.0".
func generateKeyFromPath(path string) string {
	trimmedPath := strings.TrimPrefix(path, "schemas/")
	trimmedPath = strings.TrimSuffix(trimmedPath, ".json")

	parts := strings.Split(trimmedPath, "/")
	if len(parts) != 3 {
		return ""
	}

	caser := cases.Title(language.English)

	nameParts := strings.Split(parts[1], "-")
	var nameBuilder strings.Builder
	for _, p := range nameParts {
		nameBuilder.WriteString(caser.String(p))
	}

	version := strings.Replace(parts[2], "v", "", 1) + ".0.0"

	return fmt.Sprintf("%s/%s", nameBuilder.String(), version)
}

// Validate проверяет тело по схеме контракта указанного типа и версии.
func (r *Registry) Validate(contractType, contractVersion string, body []byte) error {
	key := fmt.Sprintf("%s/%s", contractType, contractVersion)
	schema, ok := r.compiled[key]
	if !ok {
		return fmt.Errorf("schema for contract '%s' version '%s' not found", contractType, contractVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}

	return nil
}
