package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           SoleTrack API
// @version         0.1.0
// @description     Sneaker resale portfolio tracking with StockX and Alias market data ingestion.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
