package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnpath-backend/internal/data/repos"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/http/response"
	"github.com/yungbote/learnpath-backend/internal/modules/learning/prereq"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

const maxListLimit = 200

type ResourceHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewResourceHandler(log *logger.Logger, catalog services.CatalogService) *ResourceHandler {
	return &ResourceHandler{
		log:     log.With("handler", "ResourceHandler"),
		catalog: catalog,
	}
}

// GET /api/resources
func (h *ResourceHandler) ListResources(c *gin.Context) {
	filter := repos.ResourceFilter{
		Kind:       strings.TrimSpace(c.Query("kind")),
		TitleQuery: strings.TrimSpace(c.Query("q")),
		Limit:      50,
	}
	if raw := strings.TrimSpace(c.Query("content_provider_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_content_provider_id", err)
			return
		}
		filter.ContentProviderID = &id
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", fmt.Errorf("limit must be a positive integer"))
			return
		}
		if n > maxListLimit {
			n = maxListLimit
		}
		filter.Limit = n
	}
	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_offset", fmt.Errorf("offset must be a non-negative integer"))
			return
		}
		filter.Offset = n
	}

	list, err := h.catalog.ListResources(c.Request.Context(), filter)
	if err != nil {
		response.RespondServiceError(c, err, "list_resources_failed")
		return
	}
	out := make([]resourceView, 0, len(list))
	for _, r := range list {
		out = append(out, newResourceView(r))
	}
	response.RespondOK(c, gin.H{"resources": out})
}

// POST /api/resources
func (h *ResourceHandler) CreateResource(c *gin.Context) {
	var in services.ResourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in.ID = nil
	res, err := h.catalog.SaveResource(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err, "save_resource_failed")
		return
	}
	c.JSON(http.StatusCreated, newSaveView(res))
}

// PUT /api/resources/:id
func (h *ResourceHandler) UpdateResource(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var in services.ResourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in.ID = &id
	res, err := h.catalog.SaveResource(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err, "save_resource_failed")
		return
	}
	response.RespondOK(c, newSaveView(res))
}

// POST /api/resources/check-title
func (h *ResourceHandler) CheckTitle(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.catalog.FindByTitle(c.Request.Context(), req.Title)
	if err != nil {
		response.RespondServiceError(c, err, "check_title_failed")
		return
	}
	response.RespondOK(c, gin.H{"resource": newResourceView(res)})
}

// GET /api/resources/:id
func (h *ResourceHandler) GetResource(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	res, err := h.catalog.GetResource(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err, "get_resource_failed")
		return
	}
	response.RespondOK(c, gin.H{"resource": newResourceView(res)})
}

// DELETE /api/resources/:id
func (h *ResourceHandler) DeleteResource(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteResource(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err, "delete_resource_failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/resources/:id/prerequisites?grouped_by=prerequisites|resources
func (h *ResourceHandler) GetPrerequisites(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	proj, err := h.catalog.PrerequisiteResources(c.Request.Context(), id, c.Query("grouped_by"))
	if err != nil {
		response.RespondServiceError(c, err, "prerequisites_failed")
		return
	}
	out := gin.H{
		"resource":   newResourceView(proj.Resource),
		"grouped_by": proj.GroupedBy,
	}
	if proj.GroupedBy == prereq.GroupByResources {
		groups := make([]resourceGroupView, 0, len(proj.ByResource))
		for _, g := range proj.ByResource {
			groups = append(groups, resourceGroupView{
				Resource:      newResourceSummary(g.Resource),
				Prerequisites: newStatementViews(g.Prerequisites),
			})
		}
		out["resources"] = groups
	} else {
		entries := make([]prerequisiteMatchesView, 0, len(proj.ByPrerequisite))
		for _, m := range proj.ByPrerequisite {
			resources := make([]resourceSummary, 0, len(m.Resources))
			for _, r := range m.Resources {
				resources = append(resources, newResourceSummary(r))
			}
			entries = append(entries, prerequisiteMatchesView{
				Prerequisite: newStatementView(m.Prerequisite),
				Resources:    resources,
			})
		}
		out["prerequisites"] = entries
	}
	response.RespondOK(c, out)
}

// GET /api/resources/:id/learning-tree?format=json|text|html
func (h *ResourceHandler) GetLearningTree(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "json")))
	if format != "json" && format != "text" && format != "html" {
		response.RespondError(c, http.StatusBadRequest, "invalid_format", fmt.Errorf("format must be json, text or html"))
		return
	}
	tree, err := h.catalog.LearningTree(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err, "learning_tree_failed")
		return
	}
	switch format {
	case "text":
		c.String(http.StatusOK, prereq.RenderText(tree.Forest))
	case "html":
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(prereq.RenderHTML(tree.Forest)))
	default:
		response.RespondOK(c, gin.H{
			"resource": newResourceSummary(tree.Target),
			"nodes":    newTreeViews(tree.Forest),
			"lines":    tree.Lines,
			"size":     tree.Forest.Size(),
			"depth":    tree.Forest.Depth(),
		})
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid resource id"))
		return uuid.Nil, false
	}
	return id, true
}

// =====================================
// Views
// =====================================

type statementView struct {
	ID        uuid.UUID `json:"id"`
	Noun      string    `json:"noun"`
	Verb      string    `json:"verb"`
	CreatedAt time.Time `json:"created_at"`
}

type resourceSummary struct {
	ID    uuid.UUID `json:"id"`
	Kind  string    `json:"kind"`
	Title string    `json:"title"`
	URL   string    `json:"url"`
}

type resourceView struct {
	resourceSummary
	ShortDescription string          `json:"short_description,omitempty"`
	LongDescription  string          `json:"long_description,omitempty"`
	DOI              string          `json:"doi,omitempty"`
	Keywords         any             `json:"keywords,omitempty"`
	ContentProvider  *providerView   `json:"content_provider,omitempty"`
	StartsAt         *time.Time      `json:"starts_at,omitempty"`
	EndsAt           *time.Time      `json:"ends_at,omitempty"`
	Outcomes         []statementView `json:"learning_outcomes"`
	Prerequisites    []statementView `json:"prerequisites"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type providerView struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	URL   string    `json:"url"`
}

type saveView struct {
	Resource resourceView `json:"resource"`
	Removed  struct {
		Outcomes      []statementView `json:"learning_outcomes"`
		Prerequisites []statementView `json:"prerequisites"`
	} `json:"deduplicated"`
}

type prerequisiteMatchesView struct {
	Prerequisite statementView     `json:"prerequisite"`
	Resources    []resourceSummary `json:"resources"`
}

type resourceGroupView struct {
	Resource      resourceSummary `json:"resource"`
	Prerequisites []statementView `json:"prerequisites"`
}

type treeNodeView struct {
	Kind         string          `json:"kind"`
	Resource     resourceSummary `json:"resource"`
	Prerequisite statementView   `json:"satisfies"`
	Unsatisfied  []statementView `json:"unsatisfied,omitempty"`
	Children     []treeNodeView  `json:"children"`
}

func newStatementView(st *types.LearningStatement) statementView {
	if st == nil {
		return statementView{}
	}
	return statementView{ID: st.ID, Noun: st.Noun, Verb: st.Verb, CreatedAt: st.CreatedAt}
}

func newStatementViews(list []*types.LearningStatement) []statementView {
	out := make([]statementView, 0, len(list))
	for _, st := range list {
		out = append(out, newStatementView(st))
	}
	return out
}

func newResourceSummary(r *types.Resource) resourceSummary {
	if r == nil {
		return resourceSummary{}
	}
	return resourceSummary{ID: r.ID, Kind: r.Kind, Title: r.Title, URL: r.URL}
}

func newResourceView(r *types.Resource) resourceView {
	v := resourceView{
		resourceSummary:  newResourceSummary(r),
		ShortDescription: r.ShortDescription,
		LongDescription:  r.LongDescription,
		DOI:              r.DOI,
		StartsAt:         r.StartsAt,
		EndsAt:           r.EndsAt,
		Outcomes:         newStatementViews(r.Outcomes),
		Prerequisites:    newStatementViews(r.Prerequisites),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if len(r.Keywords) > 0 {
		v.Keywords = r.Keywords
	}
	if r.ContentProvider != nil {
		v.ContentProvider = &providerView{ID: r.ContentProvider.ID, Title: r.ContentProvider.Title, URL: r.ContentProvider.URL}
	}
	return v
}

func newSaveView(res *services.SaveResult) saveView {
	var v saveView
	v.Resource = newResourceView(res.Resource)
	v.Removed.Outcomes = newStatementViews(res.Removed.Outcomes)
	v.Removed.Prerequisites = newStatementViews(res.Removed.Prerequisites)
	return v
}

func newTreeViews(f prereq.Forest) []treeNodeView {
	out := make([]treeNodeView, 0, len(f))
	for _, n := range f {
		if n == nil {
			continue
		}
		out = append(out, treeNodeView{
			Kind:         string(n.Kind),
			Resource:     newResourceSummary(n.Resource),
			Prerequisite: newStatementView(n.Prerequisite),
			Unsatisfied:  newStatementViews(n.Unsatisfied),
			Children:     newTreeViews(n.Children),
		})
	}
	return out
}
