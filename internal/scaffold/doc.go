// Package scaffold renders generated Zig sources from embedded templates. It
// produces the registration module (type aliases, the update table, one
// system wrapper per component and run_ALL) and the session module (one
// fixed-capacity pool per type), and powers "compgen new" by writing
// component declaration skeletons.
package scaffold
