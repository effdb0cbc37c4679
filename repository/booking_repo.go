package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/sirupsen/logrus"
)

// BookingRepo encapsulates the Cassandra api client towards the
// reservation subsystem's booking table.
type BookingRepo struct {
	session *gocql.Session
	logger  *logrus.Logger
}

// NewBookingRepo reads db configuration, creates the pricing keyspace if it
// does not exist yet and connects to it.
func NewBookingRepo(db string, logger *logrus.Logger) (*BookingRepo, error) {
	cluster := gocql.NewCluster(db)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		logger.WithFields(logrus.Fields{"path": "repository/booking"}).Error(err)
		return nil, err
	}
	err = session.Query(
		fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
					WITH replication = {
						'class' : 'SimpleStrategy',
						'replication_factor' : %d
					}`, "booking", 1)).Exec()
	if err != nil {
		logger.WithFields(logrus.Fields{"path": "repository/booking"}).Error(err)
	}
	session.Close()

	cluster.Keyspace = "booking"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		logger.WithFields(logrus.Fields{"path": "repository/booking"}).Error(err)
		return nil, err
	}

	return &BookingRepo{
		session: session,
		logger:  logger,
	}, nil
}

func (br *BookingRepo) CloseSession() {
	br.session.Close()
}

// CreateTable creates the bookings_by_hotel table read by availability and
// demand analysis.
func (br *BookingRepo) CreateTable() {
	err := br.session.Query(
		`CREATE TABLE IF NOT EXISTS bookings_by_hotel (
        booking_id_time_created timeuuid,
        hotel_id text,
        room_type text,
        rooms int,
        check_in_date timestamp,
        check_out_date timestamp,
        created_at timestamp,
        is_cancelled boolean,
        PRIMARY KEY ((hotel_id, room_type), check_in_date, booking_id_time_created)
    ) WITH CLUSTERING ORDER BY (check_in_date ASC);`,
	).Exec()

	if err != nil {
		br.logger.WithFields(logrus.Fields{"path": "repository/booking"}).Error(err)
	}
}

// CountBookedRooms counts rooms of the given type whose stay overlaps
// [checkIn, checkOut).
func (br *BookingRepo) CountBookedRooms(ctx context.Context, hotelID, roomType string, checkIn, checkOut time.Time) (int, error) {
	iter := br.session.Query(
		`SELECT rooms, check_out_date, is_cancelled FROM bookings_by_hotel
         WHERE hotel_id = ? AND room_type = ? AND check_in_date < ? ALLOW FILTERING`,
		hotelID, roomType, checkOut,
	).WithContext(ctx).Iter()

	booked := 0
	var rooms int
	var checkOutDate time.Time
	var isCancelled bool
	for iter.Scan(&rooms, &checkOutDate, &isCancelled) {
		if isCancelled {
			continue
		}
		if checkOutDate.After(checkIn) {
			booked += rooms
		}
	}
	if err := iter.Close(); err != nil {
		br.logger.WithFields(logrus.Fields{"path": "repository/booking"}).Error(err)
		return 0, err
	}
	return booked, nil
}

// BookingsInWindow returns the number of bookings created inside the window
// and the room-nights they occupy.
func (br *BookingRepo) BookingsInWindow(ctx context.Context, hotelID, roomType string, from, to time.Time) (int, int, error) {
	iter := br.session.Query(
		`SELECT rooms, check_in_date, check_out_date, created_at, is_cancelled FROM bookings_by_hotel
         WHERE hotel_id = ? AND room_type = ? ALLOW FILTERING`,
		hotelID, roomType,
	).WithContext(ctx).Iter()

	bookings := 0
	roomNights := 0
	var rooms int
	var checkInDate, checkOutDate, createdAt time.Time
	var isCancelled bool
	for iter.Scan(&rooms, &checkInDate, &checkOutDate, &createdAt, &isCancelled) {
		if isCancelled || createdAt.Before(from) || !createdAt.Before(to) {
			continue
		}
		bookings++
		nights := int(checkOutDate.Sub(checkInDate).Hours() / 24)
		if nights < 1 {
			nights = 1
		}
		roomNights += rooms * nights
	}
	if err := iter.Close(); err != nil {
		br.logger.WithFields(logrus.Fields{"path": "repository/booking"}).Error(err)
		return 0, 0, err
	}
	return bookings, roomNights, nil
}
