// Package content serves the public catalogue: products, applications,
// projects and team members. Reads are public; writes need an admin session.
package content

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"paperpaints/cache"
	"paperpaints/mapper"
	"paperpaints/models"
	"paperpaints/store"
)

type ContentModule struct {
	products     *Resource[models.Product]
	applications *Resource[models.Application]
	projects     *Resource[models.Project]
	team         *Resource[models.TeamMember]
	requireAuth  gin.HandlerFunc
}

func NewContentModule(db *gorm.DB, requireAuth gin.HandlerFunc) *ContentModule {
	return &ContentModule{
		products:     NewResource[models.Product]("product", "products", store.New[models.Product](db)),
		applications: NewResource[models.Application]("application", "applications", store.New[models.Application](db)),
		projects: NewResource[models.Project]("project", "projects", store.New[models.Project](db),
			mapper.ISODate("completionDate")),
		team:        NewResource[models.TeamMember]("team member", "team members", store.New[models.TeamMember](db)),
		requireAuth: requireAuth,
	}
}

func (m *ContentModule) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	m.mount(products, m.products.List, m.products.Get, m.products.Delete,
		Create[models.Product, ProductInput](m.products),
		Update[models.Product, ProductInput](m.products))

	applications := router.Group("/applications")
	m.mount(applications, m.applications.List, m.applications.Get, m.applications.Delete,
		Create[models.Application, ApplicationInput](m.applications),
		Update[models.Application, ApplicationInput](m.applications))

	projects := router.Group("/projects")
	m.mount(projects, m.projects.List, m.projects.Get, m.projects.Delete,
		Create[models.Project, ProjectInput](m.projects),
		Update[models.Project, ProjectInput](m.projects))

	team := router.Group("/team")
	m.mount(team, m.team.List, m.team.Get, m.team.Delete,
		Create[models.TeamMember, TeamMemberInput](m.team),
		Update[models.TeamMember, TeamMemberInput](m.team))
}

func (m *ContentModule) mount(g *gin.RouterGroup, list, get, del, create, update gin.HandlerFunc) {
	etag := cache.ETag()
	g.GET("", etag, list)
	g.GET("/:id", etag, get)
	g.POST("", m.requireAuth, create)
	g.PUT("/:id", m.requireAuth, update)
	g.DELETE("/:id", m.requireAuth, del)
}
