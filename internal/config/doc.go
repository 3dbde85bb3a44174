// Package config loads prerender.json.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 3000,
//	    "clientScript": "/main.js"
//	  },
//	  "render": {
//	    "maxWait": "2s",
//	    "dev": true
//	  },
//	  "snapshot": {
//	    "backend": "s3",
//	    "bucket": "renders",
//	    "prefix": "snapshots/",
//	    "region": "eu-west-1"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "prerender"
//	  },
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  }
//	}
//
// Durations are Go duration strings. Missing values take the defaults of
// New.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
