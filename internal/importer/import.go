// Package importer converts between resource definition files and the
// in-memory stores: single-file and bulk directory imports with per-item
// accounting, and the text export templates geckd serves as downloads.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/geck-tools/geck/internal/models"
)

// Import actions reported for a single definition file.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

type contextDefinition struct {
	Kind         string   `yaml:"kind"`
	Name         string   `yaml:"name"`
	Customer     string   `yaml:"customer"`
	Industry     string   `yaml:"industry"`
	Entity       string   `yaml:"entity"`
	Status       string   `yaml:"status"`
	Capabilities []string `yaml:"capabilities"`
}

type programDefinition struct {
	Kind         string   `yaml:"kind"`
	Name         string   `yaml:"name"`
	Vendor       string   `yaml:"vendor"`
	Type         string   `yaml:"type"`
	APIType      string   `yaml:"api_type"`
	Status       string   `yaml:"status"`
	Capabilities []string `yaml:"capabilities"`
}

type userDefinition struct {
	Kind   string `yaml:"kind"`
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	Role   string `yaml:"role"`
	Active *bool  `yaml:"active"`
}

// Importer applies definition files to the resource stores.
type Importer struct {
	Contexts *models.ContextStore
	Programs *models.ProgramStore
	Users    *models.UserStore
	Dir      string // server-side definitions directory for bulk imports
	Log      logrus.FieldLogger
}

// New creates an Importer over the given stores and definitions directory.
func New(contexts *models.ContextStore, programs *models.ProgramStore, users *models.UserStore, dir string, log logrus.FieldLogger) *Importer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Importer{Contexts: contexts, Programs: programs, Users: users, Dir: dir, Log: log}
}

// ImportFile parses one definition file's content and upserts the resource
// by name, returning the action taken ("created" or "updated").
func (im *Importer) ImportFile(kind, filename string, content []byte) (string, error) {
	if len(strings.TrimSpace(string(content))) == 0 {
		return "", fmt.Errorf("%s: file is empty", filename)
	}
	switch kind {
	case KindContext:
		return im.importContext(filename, content)
	case KindProgram:
		return im.importProgram(filename, content)
	case KindUser:
		return im.importUser(filename, content)
	}
	return "", fmt.Errorf("unknown resource kind %q", kind)
}

func (im *Importer) importContext(filename string, content []byte) (string, error) {
	var def contextDefinition
	if err := yaml.Unmarshal(content, &def); err != nil {
		return "", fmt.Errorf("%s: parsing definition: %w", filename, err)
	}
	if def.Name == "" {
		return "", fmt.Errorf("%s: name is required", filename)
	}
	if existing := im.Contexts.FindByName(def.Name); existing != nil {
		// Mutate a clone, not the stored struct: listings may be
		// serializing the existing pointer right now.
		updated := *existing
		updated.CustomerName = def.Customer
		updated.Industry = def.Industry
		updated.Entity = def.Entity
		if def.Status != "" {
			updated.Status = def.Status
		}
		updated.Capabilities = def.Capabilities
		im.Contexts.Update(&updated)
		return ActionUpdated, nil
	}
	status := def.Status
	if status == "" {
		status = "active"
	}
	im.Contexts.Create(&models.CustomerContext{
		Name:         def.Name,
		CustomerName: def.Customer,
		Industry:     def.Industry,
		Entity:       def.Entity,
		Status:       status,
		Capabilities: def.Capabilities,
	})
	return ActionCreated, nil
}

func (im *Importer) importProgram(filename string, content []byte) (string, error) {
	var def programDefinition
	if err := yaml.Unmarshal(content, &def); err != nil {
		return "", fmt.Errorf("%s: parsing definition: %w", filename, err)
	}
	if def.Name == "" {
		return "", fmt.Errorf("%s: name is required", filename)
	}
	if existing := im.Programs.FindByName(def.Name); existing != nil {
		updated := *existing
		updated.Vendor = def.Vendor
		updated.Type = def.Type
		updated.APIType = def.APIType
		if def.Status != "" {
			updated.Status = def.Status
		}
		updated.Capabilities = def.Capabilities
		im.Programs.Update(&updated)
		return ActionUpdated, nil
	}
	status := def.Status
	if status == "" {
		status = "active"
	}
	im.Programs.Create(&models.ProgramConfig{
		Name:         def.Name,
		Vendor:       def.Vendor,
		Type:         def.Type,
		APIType:      def.APIType,
		Status:       status,
		Capabilities: def.Capabilities,
	})
	return ActionCreated, nil
}

func (im *Importer) importUser(filename string, content []byte) (string, error) {
	var def userDefinition
	if err := yaml.Unmarshal(content, &def); err != nil {
		return "", fmt.Errorf("%s: parsing definition: %w", filename, err)
	}
	if def.Name == "" {
		return "", fmt.Errorf("%s: name is required", filename)
	}
	if def.Email == "" {
		return "", fmt.Errorf("%s: email is required", filename)
	}
	if other := im.Users.FindByEmail(def.Email); other != nil && other.Name != def.Name {
		return "", fmt.Errorf("%s: email %s already belongs to %s", filename, def.Email, other.Name)
	}
	if existing := im.Users.FindByName(def.Name); existing != nil {
		updated := *existing
		updated.Email = def.Email
		if def.Role != "" {
			updated.Role = def.Role
		}
		if def.Active != nil {
			updated.Active = *def.Active
		}
		im.Users.Update(&updated)
		return ActionUpdated, nil
	}
	role := def.Role
	if role == "" {
		role = "viewer"
	}
	active := true
	if def.Active != nil {
		active = *def.Active
	}
	im.Users.Create(&models.User{
		Name:   def.Name,
		Email:  def.Email,
		Role:   role,
		Active: active,
	})
	return ActionCreated, nil
}

// BulkImport scans the definitions directory and applies every file of the
// given kind, logging per-file outcomes through logf (job output). Files
// that are not definition files are counted as skipped, files that fail to
// parse or validate as failed. The scan itself only errors when the
// directory cannot be read.
func (im *Importer) BulkImport(kind string, logf func(string)) (*models.ImportResult, error) {
	entries, err := os.ReadDir(im.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading definitions dir: %w", err)
	}

	result := models.NewImportResult()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	logf(fmt.Sprintf("Scanning %s: %d files", im.Dir, len(names)))
	for _, name := range names {
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			result.Record(models.OutcomeSkipped, name)
			logf(fmt.Sprintf("  SKIP: %s (not a definition file)", name))
			continue
		}

		content, err := os.ReadFile(filepath.Join(im.Dir, name))
		if err != nil {
			result.Record(models.OutcomeFailed, name)
			logf(fmt.Sprintf("  FAIL: %s: %v", name, err))
			continue
		}
		// Files declaring another kind are skipped, not failed. Files with
		// no kind line (or broken YAML) fall through to ImportFile, which
		// reports the real parse/validation error.
		if k := kindOf(content); k != "" && k != kind {
			result.Record(models.OutcomeSkipped, name)
			logf(fmt.Sprintf("  SKIP: %s (kind %s)", name, k))
			continue
		}

		action, err := im.ImportFile(kind, name, content)
		if err != nil {
			result.Record(models.OutcomeFailed, name)
			logf(fmt.Sprintf("  FAIL: %s: %v", name, err))
			im.Log.WithField("file", name).WithError(err).Warn("bulk import item failed")
			continue
		}
		switch action {
		case ActionCreated:
			result.Record(models.OutcomeImported, name)
			logf(fmt.Sprintf("  CREATED: %s", name))
		case ActionUpdated:
			result.Record(models.OutcomeUpdated, name)
			logf(fmt.Sprintf("  UPDATED: %s", name))
		}
	}

	s := result.Summary
	logf(fmt.Sprintf("Done: %d total, %d imported, %d updated, %d failed, %d skipped",
		s.Total, s.Imported, s.Updated, s.Failed, s.Skipped))
	im.Log.WithFields(logrus.Fields{
		"kind":     kind,
		"total":    s.Total,
		"imported": s.Imported,
		"updated":  s.Updated,
		"failed":   s.Failed,
		"skipped":  s.Skipped,
	}).Info("bulk import finished")
	return result, nil
}

// Seed applies a multi-document definitions file at startup. Each document
// carries its own kind; documents without a recognizable kind are counted
// as failed.
func (im *Importer) Seed(path string, logf func(string)) (*models.ImportResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	result := models.NewImportResult()
	for i, doc := range splitDocuments(string(content)) {
		name := fmt.Sprintf("%s#%d", filepath.Base(path), i+1)
		kind := kindOf([]byte(doc))
		if kind == "" {
			result.Record(models.OutcomeFailed, name)
			logf(fmt.Sprintf("  FAIL: %s: missing or unreadable kind", name))
			continue
		}
		action, err := im.ImportFile(kind, name, []byte(doc))
		if err != nil {
			result.Record(models.OutcomeFailed, name)
			logf(fmt.Sprintf("  FAIL: %s: %v", name, err))
			continue
		}
		if action == ActionUpdated {
			result.Record(models.OutcomeUpdated, name)
		} else {
			result.Record(models.OutcomeImported, name)
		}
		logf(fmt.Sprintf("  %s: %s (%s)", strings.ToUpper(action), name, kind))
	}
	return result, nil
}

// splitDocuments splits multi-document YAML on "---" separator lines,
// dropping empty documents.
func splitDocuments(content string) []string {
	var docs []string
	var current []string
	flush := func() {
		doc := strings.Join(current, "\n")
		if strings.TrimSpace(doc) != "" {
			docs = append(docs, doc)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return docs
}

// kindOf peeks at a definition file's kind field without parsing the full
// typed structure. Returns "" when the file has no kind or cannot be parsed.
func kindOf(content []byte) string {
	var header struct {
		Kind string `yaml:"kind"`
	}
	if err := yaml.Unmarshal(content, &header); err != nil {
		return ""
	}
	return header.Kind
}
