// Package app is the composition root for both satchel clients.
//
// # Overview
//
// RunRecall and RunAgenda wire the shared pieces the same way:
//
//  1. Load configuration (config file, env overrides)
//  2. Create the session store persisting to the credentials file
//  3. Create the API client with the session store as its token source
//  4. Bind the client back into the session store
//  5. Start the Bubble Tea UI and block until the user exits
//
// The session store and the API client depend on each other: the client
// reads its bearer token from the store, the store logs in through the
// client. The store is built first and the client is bound in afterwards,
// which keeps both sides free of globals.
//
// Business logic lives in the domain packages (api, session, collection,
// practice, listview); this package only connects them.
package app
