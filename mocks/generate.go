package mocks

//go:generate mockgen -destination=./mock_catalog.go -package=mocks github.com/rxtech-lab/argo-crossover/internal/catalog Catalog
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-crossover/internal/datasource DataSource
//go:generate mockgen -destination=./mock_marker.go -package=mocks github.com/rxtech-lab/argo-crossover/internal/marker Marker
