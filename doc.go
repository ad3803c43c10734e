// Package herostore provides a small hero registry stored as one JSON blob per
// hero in a flat blob container.
//
// There is no index: every lookup lists the whole container and decodes each
// blob. Duplicate heroes are detected by name equality, and new heroes get a
// random eight digit id unless the caller supplies one.
//
// # Key Components
//
//   - HeroService: list, get, create, update and delete over a BlobStore
//   - BlobStore: interface for the backing blob container (memory, filesystem,
//     bolt, sqlite, postgres, Azure Blob Storage, S3)
//   - IDGenerator: id allocation policy for new heroes
//
// # Example Usage
//
//	service, err := herostore.NewHeroService(store, herostore.ServiceConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create a hero, letting the service pick an id
//	hero, err := service.Create(ctx, herostore.Hero{Name: "Thor"}, nil)
//
//	// Look it up again
//	hero, err = service.Get(ctx, hero.ID)
//
// See the http package for the REST API and the storage package for backend
// selection.
package herostore
