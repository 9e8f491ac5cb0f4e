package orders

const (
	TopicOrderCreated = "order.created"
	TopicOrderPaid    = "order.paid"
)

// TopicFor maps an event type to its topic; unknown types return "".
func TopicFor(eventType string) string {
	switch eventType {
	case EventOrderCreated:
		return TopicOrderCreated
	case EventOrderPaid:
		return TopicOrderPaid
	}
	return ""
}

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
