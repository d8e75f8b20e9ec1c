// Package cow provides a thread-safe, ordered, copy-on-write sequence
// container.
//
// A Vector lets many concurrent readers iterate or index over a stable
// snapshot of its contents while writers mutate the live container. Readers
// block writers only for the brief handle exchange under the container lock;
// traversal itself runs lock-free over the captured snapshot.
//
// Key types:
//
//   - Vector: the public sequence type; one lock, one storage handle
//   - Iterator: a forward/backward cursor bound to one captured snapshot
//   - View: an indexable, sized read-only snapshot for random access
//
// The write policy is copy-on-write: while the container is the sole holder
// of its storage, mutations happen in place. As soon as a snapshot is
// outstanding (an Iterator, a View, a sibling Vector, or an in-flight query),
// the next mutation copies the surviving elements into fresh storage and
// swaps the handle, leaving every published snapshot untouched.
//
// Vectors are safe for concurrent use. Element contents are not protected:
// if T itself carries shared mutable state, guarding it is the caller's
// responsibility.
package cow
