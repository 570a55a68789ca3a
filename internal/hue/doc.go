// Package hue is a client for the Hue bridge v1 REST API (lights, groups, scenes).
//
// Entities are only created by fetch operations, which attach the identifier the bridge keyed
// them by. Every network call takes the Transport explicitly. Writes follow a write-then-reread
// cycle: after a PUT the entity is fetched again and the fresh copy is returned, so callers
// always hold what the bridge reports rather than what they asked for.
//
// Nothing here is safe against concurrent external mutation of the same entity: two processes
// pushing to one light interleave their PUTs and each sees whatever the bridge reports last.
//
//	t := hue.NewHTTPTransport("192.168.1.2", token)
//	light, err := hue.GetLight(ctx, t, 1)
//	if err != nil {
//	    return err
//	}
//	light.State.SetOn(true).SetBri(200)
//	light, err = light.PushState(ctx, t)
package hue
