package server

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", s.IndexHandler())

	// OAuth login flows
	s.RegisterRouteHandler("GET "+RouteLoginO365, ChainMiddleware(s.LoginHandler(s.deps.O365), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteCallbackO365, ChainMiddleware(s.CallbackHandler(s.deps.O365), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteLoginGoogle, ChainMiddleware(s.LoginHandler(s.deps.Google), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteCallbackGoogle, ChainMiddleware(s.CallbackHandler(s.deps.Google), s.APIMiddleware()...))

	// Accounts
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLoginCustom, ChainMiddleware(s.LoginCustomHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteUser, ChainMiddleware(s.UserHandler(), s.withAPI(s.RequireUser())...))
	s.RegisterRouteHandler("POST "+RouteUserCode, ChainMiddleware(s.GenerateCodeHandler(), s.withAPI(s.RequireServiceKey())...))
	s.RegisterRouteHandler("PUT "+RouteActivate, ChainMiddleware(s.ActivateHandler(), s.withAPI(s.RequireInactiveUser())...))

	// Catalog reference data; the card list backs the public search box
	// and stays open
	s.RegisterRouteHandler("GET "+RouteCards, ChainMiddleware(s.CardsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteCategories, ChainMiddleware(s.CategoriesHandler(), s.withAPI(s.RequireUser())...))
	s.RegisterRouteHandler("GET "+RouteBrands, ChainMiddleware(s.BrandsHandler(), s.withAPI(s.RequireUser())...))

	// Products
	s.RegisterRouteHandler("POST "+RouteProduct, ChainMiddleware(s.CreateProductHandler(), s.withAPI(s.RequireUser())...))
	s.RegisterRouteHandler("PUT "+RouteProductByID, ChainMiddleware(s.UpdateProductHandler(), s.withAPI(s.RequireUser())...))
	s.RegisterRouteHandler("DELETE "+RouteProductByID, ChainMiddleware(s.DeleteProductHandler(), s.withAPI(s.RequireUser())...))
	s.RegisterRouteHandler("GET "+RouteProducts, ChainMiddleware(s.ProductsHandler(), s.withAPI(s.RequireUser())...))
	s.RegisterRouteHandler("GET "+RouteProductsByID, ChainMiddleware(s.ProductByIDHandler(), s.withAPI(s.RequireUser())...))
	s.RegisterRouteHandler("GET "+RouteProductsByUser, ChainMiddleware(s.ProductsByUserHandler(), s.withAPI(s.RequireUser())...))
}
