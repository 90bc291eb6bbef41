package impl

import (
	"fleetmap/internal/domain/entity"
	"fleetmap/internal/usecase"
)

// classifyPersons splits the person collection into the driver and customer
// map layers. The partition is stable: each output preserves the input
// collection's order. Admin and unknown roles belong to neither layer.
// Pure function of its input.
func classifyPersons(persons []entity.Person) ([]usecase.Driver, []usecase.Customer) {
	drivers := make([]usecase.Driver, 0, len(persons))
	customers := make([]usecase.Customer, 0, len(persons))

	for _, person := range persons {
		switch person.Role {
		case entity.RoleDriver:
			drivers = append(drivers, usecase.Driver{
				ID:          person.ID,
				Name:        person.Name,
				Phone:       person.Phone,
				Location:    person.Location,
				Available:   person.Available,
				VehicleType: person.VehicleType,
			})
		case entity.RoleCustomer:
			customers = append(customers, usecase.Customer{
				ID:       person.ID,
				Name:     person.Name,
				Phone:    person.Phone,
				Location: person.Location,
			})
		}
	}

	return drivers, customers
}

// filterLiveOrders keeps exactly the orders whose status is in the live
// subset. Delivered, cancelled and unrecognized statuses are excluded
// entirely, never reported as an error. Pure function of its input.
func filterLiveOrders(orders []entity.Order) []entity.Order {
	live := make([]entity.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status.IsLive() {
			live = append(live, order)
		}
	}

	return live
}

// toLiveOrders converts filtered orders into their map layer representation.
func toLiveOrders(orders []entity.Order) []usecase.LiveOrder {
	views := make([]usecase.LiveOrder, 0, len(orders))
	for _, order := range orders {
		views = append(views, usecase.LiveOrder{
			ID:       order.ID,
			Status:   order.Status,
			DriverID: order.DriverID,
			Dropoff:  order.Dropoff,
		})
	}

	return views
}
