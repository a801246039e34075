/*
Package domain contains the core protocol models shared by the Inertia prop engine.

It defines the vocabulary of a page render: how a property is annotated, which
reload the client asked for, and the envelope that goes back on the wire. This
package is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Annotation: Controls when a top-level prop is sent (Normal, Always, Optional, Deferred).
  - ReloadMode: A full page load or a partial reload of specific top-level keys.
  - PageMeta: Host-supplied metadata for a render (component, url, version, history flags).
  - Page: The wire envelope serialized to JSON or embedded in the HTML shell.
*/
package domain
