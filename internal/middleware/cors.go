package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS accepts every origin, method and request header. Preflights get the
// requested headers echoed back, so clients may send whatever they like.
func CORS() gin.HandlerFunc {
	handler := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE", "OPTIONS"},
		ExposeHeaders:   []string{HeaderRequestID},
	})

	return func(c *gin.Context) {
		if c.Request.Method == "OPTIONS" && c.GetHeader("Origin") != "" {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Header("Access-Control-Allow-Headers", requested)
				c.Writer.Header().Add("Vary", "Access-Control-Request-Headers")
			}
		}
		handler(c)
	}
}
