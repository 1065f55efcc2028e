package api

import "github.com/gin-gonic/gin"

func (ctl *Controller) Register(r gin.IRouter) {
	r.GET("/health", ctl.Health)

	api := r.Group("/api")
	{
		api.GET("/contacts", ctl.ListContacts)
		api.POST("/contacts", ctl.CreateContact)
		api.GET("/contacts/:contactId/deals", ctl.ContactDeals)

		api.GET("/deals", ctl.ListDeals)
		api.POST("/deals", ctl.CreateDeal)

		api.GET("/ai/summary", ctl.Summary)
	}
}
