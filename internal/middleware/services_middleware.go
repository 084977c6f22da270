package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/nat2132/event-finder/internal/billing"
	"github.com/nat2132/event-finder/internal/services"
)

// ServicesMiddleware places the long-lived service singletons into the gin
// context so handlers can reach them the same way they reach the database.
func ServicesMiddleware(tickets *services.TicketService, catalog *services.CatalogService, recommender *services.Recommender, chapa *billing.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("ticket_service", tickets)
		c.Set("catalog_service", catalog)
		c.Set("recommender", recommender)
		c.Set("chapa_client", chapa)
		c.Next()
	}
}

func GetTicketService(c *gin.Context) *services.TicketService {
	value, exists := c.Get("ticket_service")
	if !exists {
		return nil
	}
	return value.(*services.TicketService)
}

func GetCatalogService(c *gin.Context) *services.CatalogService {
	value, exists := c.Get("catalog_service")
	if !exists {
		return nil
	}
	return value.(*services.CatalogService)
}

func GetRecommender(c *gin.Context) *services.Recommender {
	value, exists := c.Get("recommender")
	if !exists {
		return nil
	}
	return value.(*services.Recommender)
}

func GetChapaClient(c *gin.Context) *billing.Client {
	value, exists := c.Get("chapa_client")
	if !exists {
		return nil
	}
	return value.(*billing.Client)
}
