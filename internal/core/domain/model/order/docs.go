// Package order provides domain entities and business logic for order management
// in the fulfillment system. It implements the Order aggregate root with lifecycle
// management, sequential order numbers and the carrier shipment identity.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, totals, and lifecycle
//   - Status: A state machine that enforces valid order status transitions,
//     with a legacy display-string mapping and sentinel token parsing for the
//     unmigrated admin surface
//   - Item: An immutable snapshot of a purchased size variant's unit price
//   - Shipment: The all-or-nothing courier/awb/shipment-id triple
//   - NextNumber: The sequential order number generator
//
// Key business rules:
//   - The order total is computed once at checkout from item snapshots,
//     the flat shipping fee and the applied discounts, and never goes negative
//   - Completing an order captures its payment
//   - Cancelled is terminal and reachable from any non-Completed state
//   - Order numbers follow the SS[A-Z]{0,2}[0-9]{4} sequence with defined
//     prefix rollover and a hard exhaustion point
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
