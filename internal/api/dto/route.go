package dto

type RouteRequest struct {
	Locations     []string `json:"locations"`
	Costs         [][]*int `json:"costs"`
	Depot         string   `json:"depot"`
	Strategy      string   `json:"strategy"`
	LocalSearch   *bool    `json:"local_search"`
	ReturnToDepot *bool    `json:"return_to_depot"`
}

type TourResponse struct {
	Depot  string   `json:"depot"`
	Found  bool     `json:"found"`
	Closed bool     `json:"closed"`
	Stops  []string `json:"stops,omitempty"`
	Cost   *int     `json:"cost,omitempty"`
}
