package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop-api/internal/apperr"
	"shop-api/internal/models"
)

const (
	userOrdersLimit = 100
	allOrdersLimit  = 200
	topProductsSize = 5
)

// OrderFilter son los filtros de la vista admin de pedidos.
type OrderFilter struct {
	Status string
	Search string
	Start  *time.Time
	End    *time.Time
}

// OrderRepository convierte carritos en pedidos inmutables y sirve los
// reportes agregados de admin.
type OrderRepository struct {
	orders   *mongo.Collection
	carts    *mongo.Collection
	products *mongo.Collection
}

func NewOrderRepository(orders, carts, products *mongo.Collection) *OrderRepository {
	return &OrderRepository{orders: orders, carts: carts, products: products}
}

// CreateFromCart convierte el carrito del usuario en un pedido. Toda
// verificación ocurre antes de cualquier escritura: si una línea referencia
// un producto inválido o ausente, no se crea el pedido ni se toca el
// carrito. El carrito se vacía recién después de persistir el pedido; un
// corte entre ambas escrituras deja un carrito viejo pero nunca pierde el
// pedido.
func (r *OrderRepository) CreateFromCart(ctx context.Context, userID string, in models.OrderCreate) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var cart models.Cart
	err := r.carts.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.InvalidState("cart is empty, add products before placing an order")
		}
		return nil, err
	}

	products := make(map[string]*models.Product, len(cart.Items))
	for _, line := range cart.Items {
		objID, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			// BuildOrder reporta la referencia inválida
			continue
		}
		var product models.Product
		err = r.products.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				continue
			}
			return nil, err
		}
		products[line.ProductID] = &product
	}

	order, err := models.BuildOrder(userID, &cart, products, in, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	order.ID = primitive.NewObjectID()

	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		return nil, err
	}

	// El pedido ya está persistido; si el vaciado falla queda un carrito
	// viejo e inofensivo, no se devuelve error al cliente.
	_, err = r.carts.UpdateOne(
		ctx,
		bson.M{"_id": cart.ID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("order_id", order.ID.Hex()).
			Msg("order created but cart clear failed, stale cart left behind")
	}

	return order, nil
}

// ListByUser lista los pedidos del usuario, más recientes primero.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(userOrdersLimit)

	cursor, err := r.orders.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll es la vista admin: filtro por estado exacto, búsqueda por
// nombre/email de envío y rango de fechas de creación.
func (r *OrderRepository) ListAll(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}

	if f.Status != "" {
		if !models.ValidStatus(f.Status) {
			return nil, apperr.InvalidArgument("invalid status value")
		}
		filter["status"] = f.Status
	}
	if f.Search != "" {
		filter["$or"] = []bson.M{
			{"shipping.full_name": bson.M{"$regex": f.Search, "$options": "i"}},
			{"shipping.email": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}
	if f.Start != nil || f.End != nil {
		created := bson.M{}
		if f.Start != nil {
			created["$gte"] = *f.Start
		}
		if f.End != nil {
			created["$lte"] = *f.End
		}
		filter["created_at"] = created
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(allOrdersLimit)

	cursor, err := r.orders.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID obtiene un pedido; el chequeo de propietario lo hace el handler.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.InvalidArgument("invalid order ID")
	}

	var order models.Order
	err = r.orders.FindOne(ctx, bson.M{"_id": objID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("order not found")
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus fija el estado del pedido y, si hay nota, agrega una entrada
// con timestamp al log status_notes. El log es solo append, nunca se edita.
// Las transiciones no se restringen.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status, note string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if !models.ValidStatus(status) {
		return nil, apperr.InvalidArgument("invalid status value")
	}

	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	update := bson.M{
		"status":     status,
		"updated_at": now,
	}
	if note != "" {
		notes := append(append([]string{}, order.StatusNotes...),
			fmt.Sprintf("%s - %s", now.Format(time.RFC3339), note))
		update["status_notes"] = notes
	}

	_, err = r.orders.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{"$set": update})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Summary devuelve el total de pedidos, el revenue acumulado y el conteo por
// estado. Los estados sin pedidos no aparecen en el mapa.
func (r *OrderRepository) Summary(ctx context.Context) (*models.OrderSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	totalOrders, err := r.orders.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	revenuePipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total"}}}},
	}
	cursor, err := r.orders.Aggregate(ctx, revenuePipeline)
	if err != nil {
		return nil, err
	}
	var revenueRows []struct {
		Total float64 `bson:"total"`
	}
	if err = cursor.All(ctx, &revenueRows); err != nil {
		return nil, err
	}
	totalRevenue := 0.0
	if len(revenueRows) > 0 {
		totalRevenue = revenueRows[0].Total
	}

	statusPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err = r.orders.Aggregate(ctx, statusPipeline)
	if err != nil {
		return nil, err
	}
	var statusRows []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err = cursor.All(ctx, &statusRows); err != nil {
		return nil, err
	}
	statusCounts := map[string]int{}
	for _, row := range statusRows {
		if row.Status != "" {
			statusCounts[row.Status] = row.Count
		}
	}

	return &models.OrderSummary{
		TotalOrders:  totalOrders,
		TotalRevenue: totalRevenue,
		StatusCounts: statusCounts,
	}, nil
}

// Metrics arma dos reportes: revenue por día sobre la ventana de los últimos
// 7 días calendario UTC, y el top 5 de productos por revenue sobre TODOS los
// pedidos (no acotado a la ventana).
func (r *OrderRepository) Metrics(ctx context.Context) (*models.OrderMetrics, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -6)

	revenuePipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": start}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"total": bson.M{"$sum": "$total"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.orders.Aggregate(ctx, revenuePipeline)
	if err != nil {
		return nil, err
	}
	var revenueRows []struct {
		Date  string  `bson:"_id"`
		Total float64 `bson:"total"`
	}
	if err = cursor.All(ctx, &revenueRows); err != nil {
		return nil, err
	}
	revenueByDate := make([]models.RevenuePoint, 0, len(revenueRows))
	for _, row := range revenueRows {
		revenueByDate = append(revenueByDate, models.RevenuePoint{Date: row.Date, Total: row.Total})
	}

	topPipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":      bson.M{"product_id": "$items.product_id", "name": "$items.product_name"},
			"quantity": bson.M{"$sum": "$items.quantity"},
			"revenue":  bson.M{"$sum": bson.M{"$multiply": bson.A{"$items.price", "$items.quantity"}}},
		}}},
		{{Key: "$sort", Value: bson.M{"revenue": -1}}},
		{{Key: "$limit", Value: topProductsSize}},
	}
	cursor, err = r.orders.Aggregate(ctx, topPipeline)
	if err != nil {
		return nil, err
	}
	var topRows []struct {
		ID struct {
			ProductID string `bson:"product_id"`
			Name      string `bson:"name"`
		} `bson:"_id"`
		Quantity int     `bson:"quantity"`
		Revenue  float64 `bson:"revenue"`
	}
	if err = cursor.All(ctx, &topRows); err != nil {
		return nil, err
	}
	topProducts := make([]models.TopProduct, 0, len(topRows))
	for _, row := range topRows {
		topProducts = append(topProducts, models.TopProduct{
			ProductID: row.ID.ProductID,
			Name:      row.ID.Name,
			Quantity:  row.Quantity,
			Revenue:   row.Revenue,
		})
	}

	return &models.OrderMetrics{
		RevenueByDate: revenueByDate,
		TopProducts:   topProducts,
	}, nil
}
