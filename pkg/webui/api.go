package webui

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sitesmith/sitesmith/pkg/archive"
	"github.com/sitesmith/sitesmith/pkg/configuration"
	"github.com/sitesmith/sitesmith/pkg/generation"
	"github.com/sitesmith/sitesmith/pkg/preview"
	"github.com/sitesmith/sitesmith/pkg/publish"
	"github.com/sitesmith/sitesmith/pkg/workspace"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"error": message})
}

// workspaceErrorStatus maps workspace operation failures onto HTTP statuses.
// Unknown filenames carry a did-you-mean suggestion when one is close enough.
func workspaceError(w http.ResponseWriter, err error) {
	var unknown *workspace.UnknownFileError
	var duplicate *workspace.DuplicateNameError
	switch {
	case errors.As(err, &unknown):
		body := map[string]interface{}{"error": unknown.Error()}
		if unknown.Suggestion != "" {
			body["suggestion"] = unknown.Suggestion
		}
		writeJSON(w, http.StatusNotFound, body)
	case errors.As(err, &duplicate):
		writeError(w, http.StatusConflict, duplicate.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleAPIGenerate runs one prompt through the generation pipeline and
// replaces the workspace with the result. Provider failures still succeed
// from the client's point of view: the workspace gets the fallback page and
// the response carries the error text for non-blocking feedback.
func (s *WorkspaceServer) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	files, err := s.orchestrator.Generate(r.Context(), req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, generation.ErrEmptyPrompt):
			writeError(w, http.StatusBadRequest, "prompt is required")
			return
		case errors.Is(err, generation.ErrBusy):
			writeError(w, http.StatusConflict, "a generation is already in progress")
			return
		}
	}

	s.ws.SetFiles(files)
	s.prompts.Add(req.Prompt)

	s.mutex.Lock()
	s.generationCount++
	s.mutex.Unlock()

	html := preview.Assemble(files)
	s.broadcast("generate", map[string]interface{}{
		"files":      s.ws.Filenames(),
		"activeFile": s.ws.ActiveFile(),
		"preview":    html,
	})

	body := map[string]interface{}{
		"files":      files,
		"activeFile": s.ws.ActiveFile(),
		"preview":    html,
	}
	if err != nil {
		s.logger.Logf("Generation failed, serving fallback: %v", err)
		body["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

// handleAPIFiles serves the full file mapping and accepts bulk replacements.
func (s *WorkspaceServer) handleAPIFiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"files":      s.ws.Files(),
			"activeFile": s.ws.ActiveFile(),
			"dirty":      s.tracker.DirtyFiles(),
		})

	case http.MethodPost:
		var req struct {
			Files map[string]string `json:"files"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.Files == nil {
			writeError(w, http.StatusBadRequest, "files is required")
			return
		}
		s.ws.SetFiles(req.Files)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"files":      s.ws.Files(),
			"activeFile": s.ws.ActiveFile(),
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAPIFile reads, upserts or deletes a single file.
func (s *WorkspaceServer) handleAPIFile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		name := r.URL.Query().Get("name")
		if name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		content, ok := s.ws.Content(name)
		if !ok {
			workspaceError(w, &workspace.UnknownFileError{Name: name})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"name":    name,
			"content": content,
			"dirty":   s.tracker.IsDirty(name),
		})

	case http.MethodPost:
		var req struct {
			Name    string `json:"name"`
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		s.ws.SetFile(req.Name, req.Content)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"name":  req.Name,
			"dirty": s.tracker.IsDirty(req.Name),
		})

	case http.MethodDelete:
		name := r.URL.Query().Get("name")
		if name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if err := s.ws.DeleteFile(name); err != nil {
			workspaceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"files":      s.ws.Filenames(),
			"activeFile": s.ws.ActiveFile(),
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *WorkspaceServer) handleAPIRename(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.From) == "" || strings.TrimSpace(req.To) == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	if err := s.ws.RenameFile(req.From, req.To); err != nil {
		workspaceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"files":      s.ws.Filenames(),
		"activeFile": s.ws.ActiveFile(),
	})
}

func (s *WorkspaceServer) handleAPIActiveFile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"activeFile": s.ws.ActiveFile(),
		})

	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if err := s.ws.SetActiveFile(req.Name); err != nil {
			workspaceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"activeFile": s.ws.ActiveFile(),
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAPIPreview renders the assembled single-document preview.
func (s *WorkspaceServer) handleAPIPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, preview.Assemble(s.ws.Files()))
}

func (s *WorkspaceServer) handleAPIDirty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := map[string]interface{}{
		"dirty":      s.tracker.DirtyFiles(),
		"anyUnsaved": s.tracker.HasAnyUnsaved(),
	}
	if last := s.tracker.LastSaved(); !last.IsZero() {
		resp["lastSaved"] = last.Unix()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAPISave completes saves immediately instead of waiting out the
// debounce. With no name in the body every dirty file is saved.
func (s *WorkspaceServer) handleAPISave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	if req.Name != "" {
		s.tracker.MarkClean(req.Name)
	} else {
		for _, name := range s.tracker.DirtyFiles() {
			s.tracker.MarkClean(name)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dirty":      s.tracker.DirtyFiles(),
		"anyUnsaved": s.tracker.HasAnyUnsaved(),
	})
}

// handleAPIDownload streams the workspace as a ZIP archive.
func (s *WorkspaceServer) handleAPIDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rules := archive.CompileIgnoreRules(s.cfg.PublishIgnore)
	data, err := archive.Zip(s.ws.Files(), rules)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="site.zip"`)
	w.Write(data)
}

type publishRequest struct {
	Name     string `json:"name"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

// decodePublish reads the publish request body and resolves the token,
// preferring an explicit token in the body over the stored API key.
func (s *WorkspaceServer) decodePublish(w http.ResponseWriter, r *http.Request, provider string) (*publishRequest, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	var req publishRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Token == "" {
		req.Token = s.keys.GetAPIKey(provider)
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("no %s token configured", provider))
		return nil, false
	}
	if req.Name == "" {
		req.Name = "site"
	}
	return &req, true
}

// publishableFiles applies the configured ignore rules before handing the
// workspace to a deployer.
func (s *WorkspaceServer) publishableFiles() map[string]string {
	files := s.ws.Files()
	rules := archive.CompileIgnoreRules(s.cfg.PublishIgnore)
	if rules == nil {
		return files
	}
	kept := make(map[string]string, len(files))
	for name, content := range files {
		if rules.MatchesPath(name) {
			continue
		}
		kept[name] = content
	}
	return kept
}

func (s *WorkspaceServer) finishPublish(w http.ResponseWriter, result *publish.Result, err error) {
	if err != nil {
		s.logger.Logf("Publish failed: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.logger.Logf("Published %s to %s: %s", result.Name, result.Service, result.URL)
	s.broadcast("publish", map[string]interface{}{
		"service": result.Service,
		"url":     result.URL,
	})
	writeJSON(w, http.StatusOK, result)
}

func (s *WorkspaceServer) handleAPIPublishNetlify(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePublish(w, r, "netlify")
	if !ok {
		return
	}
	deployer := &publish.Netlify{Token: req.Token}
	result, err := deployer.Publish(r.Context(), s.publishableFiles(), req.Name)
	s.finishPublish(w, result, err)
}

func (s *WorkspaceServer) handleAPIPublishGitHub(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePublish(w, r, "github")
	if !ok {
		return
	}
	username := req.Username
	if username == "" {
		username = s.cfg.GitHubUsername
	}
	if username == "" {
		writeError(w, http.StatusBadRequest, "no GitHub username configured")
		return
	}
	deployer := &publish.GitHub{Token: req.Token, Username: username}
	result, err := deployer.Publish(r.Context(), s.publishableFiles(), req.Name)
	s.finishPublish(w, result, err)
}

func (s *WorkspaceServer) handleAPIPublishVercel(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePublish(w, r, "vercel")
	if !ok {
		return
	}
	deployer := &publish.Vercel{Token: req.Token}
	result, err := deployer.Publish(r.Context(), s.publishableFiles(), req.Name)
	s.finishPublish(w, result, err)
}

func (s *WorkspaceServer) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": s.prompts.Entries(),
	})
}

// handleAPITemplates lists starter templates and applies one to the
// workspace on POST.
func (s *WorkspaceServer) handleAPITemplates(w http.ResponseWriter, r *http.Request) {
	dir, err := configuration.GetTemplatesDir()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		templates, err := configuration.ListTemplates(dir)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"templates": templates,
		})

	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		tmpl, err := configuration.FindTemplate(dir, req.Name)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.ws.SetFiles(tmpl.Files)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"files":      s.ws.Filenames(),
			"activeFile": s.ws.ActiveFile(),
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *WorkspaceServer) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mutex.RLock()
	generations := s.generationCount
	s.mutex.RUnlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"uptime":      time.Since(s.startTime).String(),
		"generations": generations,
		"connections": s.countConnections(),
		"files":       s.ws.Len(),
		"provider":    s.cfg.Provider,
		"timestamp":   time.Now().Unix(),
	})
}
