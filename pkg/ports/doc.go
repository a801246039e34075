/*
Package ports defines the driven ports (interfaces) of the Inertia prop engine.

These interfaces decouple the core logic from external implementations, allowing
partials to come from code or files and materialized payloads to be cached in
process or in Redis.

# Key Interfaces

  - PartialCatalog: A props.Resolver that can also enumerate its partials (Memory, Loam).
  - PayloadCache: Byte-level storage for materialized partial payloads (Memory, Redis).
*/
package ports
