/*
Package ports defines the driven ports (interfaces) of the form client.

These interfaces decouple the protocol logic from the network, the HTML
parser and the storage of submission records, so each of them can be
replaced by a fake in tests or by another backend in production.

# Key Interfaces

  - HTTPClient: fetches form pages and posts page payloads.
  - Extractor: reads hidden inputs, the embedded form document and links
    out of an HTML page.
  - JournalStore: persists submission records.
  - DistributedLocker: serializes submissions across processes.
*/
package ports
