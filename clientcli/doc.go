// Package clientcli provides a client library for herostore servers.
//
// It covers the hero routes (list, get, create, update, delete, bulk load)
// and understands both server status modes: in compat mode a failed create
// still answers 200 with a plain-text body, which the client reports as an
// *APIError. The package also includes profile-based configuration for
// managing connections to multiple servers.
//
// # Basic Usage
//
//	client, err := clientcli.New(&clientcli.Config{Endpoint: "http://localhost:7071"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	hero, err := client.Create(ctx, clientcli.CreateOptions{
//		Hero: herostore.Hero{Name: "Thor"},
//	})
//
// # Profile Configuration
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("staging")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg, err := clientcli.ConfigFromProfile(profile)
//	client, err := clientcli.New(cfg)
//
// # Output Formatting
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatHeroes(os.Stdout, heroes)
package clientcli
